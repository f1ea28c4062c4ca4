package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	bookingapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/booking"
)

// BookingService is the consultation booking use-case surface
type BookingService interface {
	CreateCheckout(ctx context.Context, req bookingapp.CheckoutRequest) (*bookingapp.CheckoutResult, error)
	Slots(ctx context.Context, date string) (*bookingapp.SlotAvailability, error)
	Lookup(ctx context.Context, req bookingapp.LookupRequest) (*bookingapp.PublicBookingResponse, error)
	List(ctx context.Context, filter bookingapp.ListFilter) ([]bookingapp.BookingResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*bookingapp.BookingResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, req bookingapp.CancelRequest) (*bookingapp.BookingResponse, error)
	ListPayments(ctx context.Context, filter bookingapp.PaymentListFilter) ([]bookingapp.PaymentResponse, int64, error)
	ResendReceipt(ctx context.Context, paymentID uuid.UUID) (*bookingapp.PaymentResponse, error)
}

// BookingHandler handles paid consultation bookings
type BookingHandler struct {
	BaseHandler
	bookings BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// slotsQuery is the query for GET /bookings/slots
type slotsQuery struct {
	Date string `form:"date" binding:"required,slotdate"`
}

// Checkout handles POST /bookings/checkout
func (h *BookingHandler) Checkout(c *gin.Context) {
	var req bookingapp.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.bookings.CreateCheckout(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Slots handles GET /bookings/slots?date=YYYY-MM-DD
func (h *BookingHandler) Slots(c *gin.Context) {
	var q slotsQuery
	if !h.BindQuery(c, &q) {
		return
	}

	slots, err := h.bookings.Slots(c.Request.Context(), q.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slots)
}

// Lookup handles GET /bookings/lookup?reference=&email=
func (h *BookingHandler) Lookup(c *gin.Context) {
	var req bookingapp.LookupRequest
	if !h.BindQuery(c, &req) {
		return
	}

	resp, err := h.bookings.Lookup(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /admin/bookings
func (h *BookingHandler) List(c *gin.Context) {
	var filter bookingapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Get handles GET /admin/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /admin/bookings/:id/cancel. The body is optional.
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req bookingapp.CancelRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.bookings.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListPayments handles GET /admin/payments
func (h *BookingHandler) ListPayments(c *gin.Context) {
	var filter bookingapp.PaymentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.bookings.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ResendReceipt handles POST /admin/payments/:id/resend-receipt
func (h *BookingHandler) ResendReceipt(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.bookings.ResendReceipt(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
