package dto

import "congregation_backend/internals/features/content/gallery/model"

type CreateVideoRequest struct {
	Type    string `json:"type" validate:"required,eq=video"`
	URL     string `json:"url" validate:"required,url"`
	Caption string `json:"caption" validate:"max=255"`
}

// GalleryListResponse keeps the {items:[...]} shape the landing page reads.
type GalleryListResponse struct {
	Items []model.GalleryItemModel `json:"items"`
}
