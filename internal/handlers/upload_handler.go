package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stepuplabz/market/internal/config"
	"github.com/stepuplabz/market/internal/httperr"
	"github.com/stepuplabz/market/internal/storage"
)

type UploadHandler struct {
	store  storage.Store
	config *config.Config
}

func NewUploadHandler(store storage.Store, cfg *config.Config) *UploadHandler {
	return &UploadHandler{store: store, config: cfg}
}

// Upload accepts a single multipart "image" field, re-encodes it to a
// bounded-size webp and stores it. The response carries the public URL; for
// local storage the URL is built from the request's own scheme and host,
// matching what the mobile client expects.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "no_image", "No image uploaded.")
		return
	}

	if file.Size > h.config.MaxUploadMB*1024*1024 {
		httperr.BadRequest(c, "image_too_large", fmt.Sprintf("Image exceeds %d MB.", h.config.MaxUploadMB))
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_image", "Could not read upload.")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		httperr.Internal(c, "failed_to_read_image", "Could not read upload.")
		return
	}

	if !storage.IsAllowedImageType(http.DetectContentType(data)) {
		httperr.BadRequest(c, "unsupported_image_type", "Only JPEG, PNG and WebP are accepted.")
		return
	}

	processed, err := storage.ProcessImage(data)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_image") {
			httperr.BadRequest(c, "invalid_image", "Upload is not a decodable image.")
			return
		}
		httperr.Internal(c, "failed_to_process_image", "Could not process image.")
		return
	}

	name := fmt.Sprintf("product-%d.webp", time.Now().UnixNano())

	location, err := h.store.Save(c.Request.Context(), name, processed, "image/webp")
	if err != nil {
		httperr.Internal(c, "failed_to_store_image", "Could not store image.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": h.publicURL(c, location)})
}

func (h *UploadHandler) publicURL(c *gin.Context, location string) string {
	if !strings.HasPrefix(location, "/") {
		// S3 already returned an absolute URL
		return location
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, location)
}
