package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/content/gallery/dto"
	"congregation_backend/internals/features/content/gallery/model"
	helper "congregation_backend/internals/helpers"
)

type GalleryController struct {
	DB        *gorm.DB
	UploadDir string
	MaxWidth  int
}

func NewGalleryController(db *gorm.DB, uploadDir string, maxWidth int) *GalleryController {
	return &GalleryController{DB: db, UploadDir: uploadDir, MaxWidth: maxWidth}
}

var validate = validator.New()

const galleryFolder = "gallery"

// GET /gallery
func (h *GalleryController) List(c *fiber.Ctx) error {
	items := []model.GalleryItemModel{}
	if err := h.DB.WithContext(c.UserContext()).
		Order("gallery_item_created_at ASC").Find(&items).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "OK", dto.GalleryListResponse{Items: items})
}

// POST /gallery
// JSON body registers a video link; multipart "file" uploads an image.
func (h *GalleryController) Create(c *fiber.Ctx) error {
	if strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return h.createVideo(c)
	}
	return h.createImage(c)
}

func (h *GalleryController) createVideo(c *fiber.Ctx) error {
	var req dto.CreateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	caption := strings.TrimSpace(req.Caption)
	if caption == "" {
		caption = "Video"
	}
	item := &model.GalleryItemModel{
		GalleryItemKind:    model.KindVideo,
		GalleryItemURL:     strings.TrimSpace(req.URL),
		GalleryItemCaption: caption,
	}
	if err := h.DB.WithContext(c.UserContext()).Create(item).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Video added", item)
}

func (h *GalleryController) createImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "No file provided")
	}
	if constants.DetectFileKindFromExt(fh.Filename) != constants.FileImage {
		return helper.JsonError(c, fiber.StatusBadRequest, "Only png, jpg and webp images are accepted")
	}
	src, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Cannot read uploaded file")
	}
	defer src.Close()

	out, err := helper.ConvertToWebP(src, fh.Filename, h.MaxWidth)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File is not a valid image")
	}
	url, err := helper.SaveUpload(h.UploadDir, galleryFolder, out, ".webp")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	caption := strings.TrimSpace(c.FormValue("caption"))
	if caption == "" {
		caption = "Untitled"
	}
	item := &model.GalleryItemModel{
		GalleryItemKind:    model.KindImage,
		GalleryItemURL:     url,
		GalleryItemCaption: caption,
	}
	if err := h.DB.WithContext(c.UserContext()).Create(item).Error; err != nil {
		_ = helper.RemoveUpload(h.UploadDir, url)
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Image uploaded", item)
}

// DELETE /gallery/:id
func (h *GalleryController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var item model.GalleryItemModel
	if err := h.DB.WithContext(c.UserContext()).First(&item, "gallery_item_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Gallery item not found")
		}
		return helper.FromFiberError(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(&item).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	if item.GalleryItemKind == model.KindImage {
		if err := helper.RemoveUpload(h.UploadDir, item.GalleryItemURL); err != nil {
			log.Printf("[ERROR] remove gallery file %s: %v", item.GalleryItemURL, err)
		}
	}
	return helper.JsonDeleted(c, "Gallery item deleted", fiber.Map{"id": id})
}
