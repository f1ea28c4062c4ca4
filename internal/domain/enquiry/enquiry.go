// Package enquiry models messages submitted through the public contact form.
package enquiry

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
)

// Status is the triage state of an enquiry
type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusArchived Status = "archived"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied, StatusArchived:
		return true
	}
	return false
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9+()\-\s]+$`)
)

var (
	ErrEnquiryNotFound   = shared.NewDomainError("NOT_FOUND", "Enquiry not found")
	ErrInvalidTransition = shared.NewDomainError("INVALID_STATE", "Enquiry status transition is not allowed")
)

// Enquiry is a contact-form submission
type Enquiry struct {
	shared.BaseAggregateRoot
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	Status    Status
	Source    string
	IPAddress string
	UserAgent string
}

// Details are the user-supplied fields of a submission
type Details struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// Normalize trims every field and lower-cases the email
func (d Details) Normalize() Details {
	return Details{
		Name:    strings.TrimSpace(d.Name),
		Email:   strings.ToLower(strings.TrimSpace(d.Email)),
		Phone:   strings.TrimSpace(d.Phone),
		Subject: strings.TrimSpace(d.Subject),
		Message: strings.TrimSpace(d.Message),
	}
}

// Validate checks field lengths and formats on normalised details
func (d Details) Validate() error {
	if err := checkLength("name", d.Name, 2, 100); err != nil {
		return err
	}
	if d.Email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if len(d.Email) > 200 || !emailRegex.MatchString(d.Email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if d.Phone != "" {
		if len(d.Phone) > 30 || !phoneRegex.MatchString(d.Phone) {
			return shared.NewDomainError("INVALID_PHONE", "Phone may only contain digits, spaces and +()-")
		}
	}
	if err := checkLength("subject", d.Subject, 2, 200); err != nil {
		return err
	}
	return checkLength("message", d.Message, 10, 5000)
}

func checkLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return shared.NewDomainError("INVALID_"+strings.ToUpper(field),
			fmt.Sprintf("%s must be between %d and %d characters", strings.ToUpper(field[:1])+field[1:], min, max))
	}
	return nil
}

// NewEnquiry validates details and creates a new enquiry in status new
func NewEnquiry(details Details) (*Enquiry, error) {
	d := details.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &Enquiry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              d.Name,
		Email:             d.Email,
		Phone:             d.Phone,
		Subject:           d.Subject,
		Message:           d.Message,
		Status:            StatusNew,
		Source:            "website",
	}, nil
}

// SetOrigin records where the submission came from
func (e *Enquiry) SetOrigin(source, ip, userAgent string) {
	if source != "" {
		e.Source = truncate(source, 50)
	}
	e.IPAddress = truncate(ip, 45)
	e.UserAgent = truncate(userAgent, 500)
}

// ChangeStatus moves the enquiry to a new triage state.
// Archived enquiries can only be reopened as new.
func (e *Enquiry) ChangeStatus(to Status) error {
	if !to.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown enquiry status")
	}
	if e.Status == to {
		return nil
	}
	if e.Status == StatusArchived && to != StatusNew {
		return ErrInvalidTransition
	}
	e.Status = to
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
