package dto

// AnnouncementRequest is shared by create and update. ImageData is a data URL
// or bare base64 image; it is re-encoded as webp and stored under the upload dir.
type AnnouncementRequest struct {
	Content     string  `json:"content" validate:"required,max=5000"`
	Author      *string `json:"author" validate:"omitempty,max=150"`
	ImageData   *string `json:"imageData"`
	RemoveImage bool    `json:"removeImage"`
}
