package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amelikova/stage-portfolio/errs"
	"github.com/amelikova/stage-portfolio/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     storage.ImageStore
}

func newUploadHandler(store storage.ImageStore) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// uploadImage stores a base64 image and returns its public URL
// @Summary Upload image
// @Description Accepts a data URL or bare base64 payload. The file type is taken from the
// @Description payload signature (png, jpg, gif; anything else is stored as jpg).
// @Tags Uploads
// @Accept json
// @Produce json
// @Param body body UploadRequest true "Image payload"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Image data required"
// @Failure 413 {object} ErrorResponse "Payload too large"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Storage failure"
// @Router /upload [post]
func (h uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode upload request body")
			h.responder.WriteError(w, bodyError("upload", err))
			return
		}

		if req.Image == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("Image data required", "image"))
			return
		}

		img, err := storage.DecodeDataURL(req.Image)
		switch {
		case errors.Is(err, storage.ErrEmptyImage):
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("Image data required", "image"))
			return
		case err != nil:
			h.responder.WriteError(w, errs.NewInvalidFieldError("image", err.Error()))
			return
		}

		filename := uuid.New().String() + "." + img.Ext
		url, err := h.store.Save(r.Context(), filename, img.ContentType, img.Data)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("store image", err))
			return
		}

		h.logger.Info().
			Str("filename", filename).
			Int("bytes", len(img.Data)).
			Str("admin", ctxGetAdminSubject(r.Context())).
			Msg("Image uploaded")

		h.responder.WriteJSON(w, UploadResponse{
			Success:  true,
			URL:      url,
			Filename: filename,
		})
	}
}
