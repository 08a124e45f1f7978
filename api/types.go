package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	uploadHandler  uploadHandler
	siteHandler    siteHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Project not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"project_id"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// Image kinds accepted by the attach endpoint.
const (
	imageTypeCover   = "cover"
	imageTypeGallery = "gallery"
)

// AttachRequest associates an uploaded image with a project's cover or a gallery slot.
type AttachRequest struct {
	ProjectID string `json:"project_id"`
	ImageURL  string `json:"image_url"`
	Type      string `json:"type"`
	Position  *int   `json:"position,omitempty"`
}

// CoverAttachResponse is returned after the cover image changed.
type CoverAttachResponse struct {
	Success       bool   `json:"success"`
	ProjectID     string `json:"project_id"`
	Title         string `json:"title"`
	CoverImageURL string `json:"cover_image_url"`
}

// GalleryAttachResponse is returned after a gallery slot was written.
type GalleryAttachResponse struct {
	Success  bool   `json:"success"`
	ImageID  string `json:"image_id"`
	ImageURL string `json:"image_url"`
	Position int    `json:"position"`
}

// UploadRequest carries an image as a data URL or bare base64 payload.
type UploadRequest struct {
	Image string `json:"image"`
}

// UploadResponse reports where the uploaded image is served from.
type UploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
