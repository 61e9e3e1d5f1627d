package controller

import (
	"bytes"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/features/content/announcements/dto"
	"congregation_backend/internals/features/content/announcements/model"
	helper "congregation_backend/internals/helpers"
	helperAuth "congregation_backend/internals/helpers/auth"
)

type AnnouncementController struct {
	DB        *gorm.DB
	UploadDir string
	MaxWidth  int
}

func NewAnnouncementController(db *gorm.DB, uploadDir string, maxWidth int) *AnnouncementController {
	return &AnnouncementController{DB: db, UploadDir: uploadDir, MaxWidth: maxWidth}
}

var validate = validator.New()

const imageFolder = "announcements"

// GET /announcements?page=&per_page=
func (h *AnnouncementController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	q := h.DB.WithContext(c.UserContext()).Model(&model.AnnouncementModel{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	rows := []model.AnnouncementModel{}
	if err := q.Order("announcement_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "OK", rows, &pg)
}

// POST /announcements
func (h *AnnouncementController) Create(c *fiber.Ctx) error {
	caller, err := helperAuth.RequireCaller(c)
	if err != nil {
		return err
	}
	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	a := &model.AnnouncementModel{
		AnnouncementContent: strings.TrimSpace(req.Content),
		AnnouncementAuthor:  caller.FullName,
	}
	if req.Author != nil && strings.TrimSpace(*req.Author) != "" {
		a.AnnouncementAuthor = strings.TrimSpace(*req.Author)
	}
	if req.ImageData != nil && *req.ImageData != "" {
		url, err := h.storeImage(*req.ImageData)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "imageData is not a valid image")
		}
		a.AnnouncementImageURL = &url
	}

	if err := h.DB.WithContext(c.UserContext()).Create(a).Error; err != nil {
		_ = h.dropImage(a.AnnouncementImageURL)
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Announcement created", a)
}

// PUT|PATCH /announcements/:id
func (h *AnnouncementController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var a model.AnnouncementModel
	if err := h.DB.WithContext(c.UserContext()).First(&a, "announcement_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Announcement not found")
		}
		return helper.FromFiberError(c, err)
	}

	old := a.AnnouncementImageURL
	up := map[string]any{"announcement_content": strings.TrimSpace(req.Content)}
	if req.Author != nil && strings.TrimSpace(*req.Author) != "" {
		up["announcement_author"] = strings.TrimSpace(*req.Author)
	}
	replaced := false
	switch {
	case req.ImageData != nil && *req.ImageData != "":
		url, err := h.storeImage(*req.ImageData)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "imageData is not a valid image")
		}
		up["announcement_image_url"] = url
		replaced = true
	case req.RemoveImage:
		up["announcement_image_url"] = nil
		replaced = true
	}

	if err := h.DB.WithContext(c.UserContext()).Model(&a).Updates(up).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	if replaced {
		if err := h.dropImage(old); err != nil {
			log.Printf("[ERROR] remove announcement image %s: %v", *old, err)
		}
	}
	if err := h.DB.WithContext(c.UserContext()).First(&a, "announcement_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Announcement updated", a)
}

// DELETE /announcements/:id
func (h *AnnouncementController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var a model.AnnouncementModel
	if err := h.DB.WithContext(c.UserContext()).First(&a, "announcement_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Announcement not found")
		}
		return helper.FromFiberError(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(&a).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.dropImage(a.AnnouncementImageURL); err != nil {
		log.Printf("[ERROR] remove announcement image: %v", err)
	}
	return helper.JsonDeleted(c, "Announcement deleted", fiber.Map{"id": id})
}

func (h *AnnouncementController) storeImage(data string) (string, error) {
	raw, err := helper.DecodeDataURL(data)
	if err != nil {
		return "", err
	}
	out, err := helper.ConvertToWebP(bytes.NewReader(raw), "", h.MaxWidth)
	if err != nil {
		return "", err
	}
	return helper.SaveUpload(h.UploadDir, imageFolder, out, ".webp")
}

func (h *AnnouncementController) dropImage(url *string) error {
	if url == nil {
		return nil
	}
	return helper.RemoveUpload(h.UploadDir, *url)
}
