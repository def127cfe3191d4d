package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/handlers/dto"
)

const maxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore: объектное хранилище для картинок объявлений
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type UploadHandler struct {
	store ImageStore
}

func NewUploadHandler(store ImageStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadImage принимает multipart-поле file и возвращает публичный URL
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if _, found := currentUser(c); !found {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		fail(c, apperr.Validation("Validation error").WithField("file", "This field is required"))
		return
	}
	if header.Size > maxImageSize {
		fail(c, apperr.Validation("Validation error").WithField("file", "Image must be at most 5 MB"))
		return
	}

	f, err := header.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil {
		fail(c, err)
		return
	}
	if len(data) > maxImageSize {
		fail(c, apperr.Validation("Validation error").WithField("file", "Image must be at most 5 MB"))
		return
	}

	contentType := http.DetectContentType(data)
	ext, supported := imageExtensions[contentType]
	if !supported {
		fail(c, apperr.Validation("Validation error").WithField("file", "Only JPEG, PNG, GIF and WebP images are allowed"))
		return
	}

	url, err := h.store.Put(c.Request.Context(), "posts/"+uuid.NewString()+ext, contentType, data)
	if err != nil {
		fail(c, err)
		return
	}

	respondCreated(c, dto.UploadResponse{URL: url})
}
