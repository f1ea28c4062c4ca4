package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	blogapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/blog"
)

// MediaService is the blog media use-case surface
type MediaService interface {
	RequestUpload(ctx context.Context, req blogapp.UploadURLRequest) (*blogapp.UploadURLResponse, error)
	Upload(ctx context.Context, fileName string, body io.Reader, size int64) (*blogapp.MediaResponse, error)
	DeleteMedia(ctx context.Context, key string) error
	MaxUploadSize() int64
}

// MediaHandler handles blog image uploads
type MediaHandler struct {
	BaseHandler
	media MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(media MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// RequestUploadURL handles POST /admin/media/upload-url
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	var req blogapp.UploadURLRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.media.RequestUpload(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// multipartOverhead allows for boundaries and part headers around the file
const multipartOverhead = 1 << 20

// Upload handles POST /admin/media with a multipart "file" field
func (h *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.media.MaxUploadSize()+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Multipart field \"file\" is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	resp, err := h.media.Upload(c.Request.Context(), header.Filename, file, header.Size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Delete handles DELETE /admin/media/*key
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.media.DeleteMedia(c.Request.Context(), strings.TrimPrefix(c.Param("key"), "/")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
