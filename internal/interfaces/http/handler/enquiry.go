package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	enquiryapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/enquiry"
)

// EnquiryService is the enquiry use-case surface the handler needs
type EnquiryService interface {
	Submit(ctx context.Context, req enquiryapp.SubmitRequest, meta enquiryapp.SubmitMeta) (*enquiryapp.SubmitResult, error)
	List(ctx context.Context, filter enquiryapp.ListFilter) ([]enquiryapp.Response, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*enquiryapp.Response, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req enquiryapp.UpdateStatusRequest) (*enquiryapp.Response, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EnquiryHandler handles the contact form and its back-office triage
type EnquiryHandler struct {
	BaseHandler
	enquiries EnquiryService
}

// NewEnquiryHandler creates a new enquiry handler
func NewEnquiryHandler(enquiries EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{enquiries: enquiries}
}

// Submit handles POST /enquiries
func (h *EnquiryHandler) Submit(c *gin.Context) {
	var req enquiryapp.SubmitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.enquiries.Submit(c.Request.Context(), req, enquiryapp.SubmitMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// Stored enquiries are created; notify-only submissions were still accepted
	if result.Stored {
		h.Created(c, result)
		return
	}
	h.Accepted(c, result)
}

// List handles GET /admin/enquiries
func (h *EnquiryHandler) List(c *gin.Context) {
	var filter enquiryapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.enquiries.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Get handles GET /admin/enquiries/:id
func (h *EnquiryHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.enquiries.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus handles PATCH /admin/enquiries/:id/status
func (h *EnquiryHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req enquiryapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.enquiries.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /admin/enquiries/:id
func (h *EnquiryHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.enquiries.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
