package controller

import (
	"errors"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"congregation_backend/internals/features/content/settings/model"
	helper "congregation_backend/internals/helpers"
)

type SiteSettingController struct {
	DB *gorm.DB
}

func NewSiteSettingController(db *gorm.DB) *SiteSettingController {
	return &SiteSettingController{DB: db}
}

// GET /settings/landing
// Returns {"settings": null} until an admin saves something.
func (h *SiteSettingController) GetLanding(c *fiber.Ctx) error {
	var row model.SiteSettingModel
	err := h.DB.WithContext(c.UserContext()).First(&row, "setting_key = ?", model.KeyLanding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonOK(c, "OK", fiber.Map{"settings": nil})
	}
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"settings": row.SettingValue, "updatedAt": row.SettingUpdatedAt})
}

// PUT|POST /settings/landing
// The whole body replaces the stored blob; it must be a JSON object.
func (h *SiteSettingController) PutLanding(c *fiber.Ctx) error {
	body := c.Body()
	var probe map[string]any
	if len(body) == 0 || sonic.Unmarshal(body, &probe) != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body must be a JSON object")
	}

	row := model.SiteSettingModel{
		SettingKey:   model.KeyLanding,
		SettingValue: datatypes.JSON(append([]byte(nil), body...)),
	}
	err := h.DB.WithContext(c.UserContext()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "setting_updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Landing settings saved", fiber.Map{"settings": row.SettingValue})
}
