package enquiry

import (
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/enquiry"
)

// SubmitRequest is the public contact form
type SubmitRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"max=30"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
	Source  string `json:"source" binding:"max=50"`
}

// SubmitMeta is request context recorded with a submission
type SubmitMeta struct {
	IP        string
	UserAgent string
}

// SubmitResult reports how far a submission got.
// ID is nil when the enquiry could not be stored.
type SubmitResult struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	Stored   bool       `json:"stored"`
	Notified bool       `json:"notified"`
}

// ListFilter represents admin filter options for the enquiry list
type ListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=new read replied archived"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UpdateStatusRequest moves an enquiry through triage
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new read replied archived"`
}

// Response is the admin view of an enquiry
type Response struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToResponse converts a domain enquiry
func ToResponse(e *enquiry.Enquiry) Response {
	return Response{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Subject:   e.Subject,
		Message:   e.Message,
		Status:    string(e.Status),
		Source:    e.Source,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		Version:   e.Version,
	}
}

// ToResponses converts a page of enquiries
func ToResponses(items []enquiry.Enquiry) []Response {
	out := make([]Response, len(items))
	for i := range items {
		out[i] = ToResponse(&items[i])
	}
	return out
}
