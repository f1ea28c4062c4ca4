// Package notification renders the emails and chat messages the firm sends.
package notification

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/enquiry"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// FirmInfo is the sender identity shown in messages
type FirmInfo struct {
	Name         string
	WebsiteURL   string
	AdminURL     string
	ContactPhone string
}

// PaymentData is the view model for receipt and payment notices
type PaymentData struct {
	Firm              FirmInfo
	Reference         string
	ClientName        string
	ClientEmail       string
	ClientPhone       string
	SlotDisplay       string
	ConsultationLabel string
	PracticeArea      string
	AmountDisplay     string
	PaidAtDisplay     string
	LateConfirmation  bool
	AdminURL          string
}

// EnquiryData is the view model for enquiry emails
type EnquiryData struct {
	Firm            FirmInfo
	Name            string
	Email           string
	Phone           string
	Subject         string
	Message         string
	ReceivedDisplay string
	Stored          bool
	AdminURL        string
}

// Renderer turns domain records into outbound messages
type Renderer struct {
	firm      FirmInfo
	loc       *time.Location
	areaTitle func(slug string) string
	text      *texttemplate.Template
	html      *htmltemplate.Template
}

// NewRenderer parses the embedded templates.
// areaTitle maps a practice area slug to its display title and may be nil.
func NewRenderer(firm FirmInfo, loc *time.Location, areaTitle func(string) string) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	if firm.Name == "" {
		firm.Name = "Our firm"
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	return &Renderer{
		firm:      firm,
		loc:       loc,
		areaTitle: areaTitle,
		text:      text,
		html:      html,
	}, nil
}

// PaymentData builds the view model for a completed payment
func (r *Renderer) PaymentData(evt *booking.PaymentCompletedEvent) PaymentData {
	data := PaymentData{
		Firm:              r.firm,
		Reference:         evt.Reference,
		ClientName:        evt.ClientName,
		ClientEmail:       evt.ClientEmail,
		ClientPhone:       evt.ClientPhone,
		SlotDisplay:       r.slotDisplay(evt.SlotDate, evt.SlotTime),
		ConsultationLabel: booking.ConsultationType(evt.ConsultationType).Label(),
		PracticeArea:      r.practiceArea(evt.PracticeArea),
		AmountDisplay:     strings.TrimSpace(evt.Amount + " " + evt.Currency),
		PaidAtDisplay:     evt.PaidAt.In(r.loc).Format("2 January 2006 15:04 MST"),
		LateConfirmation:  evt.LateConfirmation,
	}
	if r.firm.AdminURL != "" {
		data.AdminURL = strings.TrimRight(r.firm.AdminURL, "/") + "/bookings/" + evt.BookingID.String()
	}
	return data
}

// Receipt is the client's payment confirmation
func (r *Renderer) Receipt(evt *booking.PaymentCompletedEvent) (shared.EmailMessage, error) {
	data := r.PaymentData(evt)
	text, err := r.renderText("receipt.txt.tmpl", data)
	if err != nil {
		return shared.EmailMessage{}, err
	}
	html, err := r.renderHTML("receipt.html.tmpl", data)
	if err != nil {
		return shared.EmailMessage{}, err
	}
	return shared.EmailMessage{
		To:       []string{evt.ClientEmail},
		Subject:  fmt.Sprintf("Booking confirmed: %s (%s)", data.SlotDisplay, evt.Reference),
		TextBody: text,
		HTMLBody: html,
	}, nil
}

// StaffPaymentNotice is the internal email sent when a consultation is paid
func (r *Renderer) StaffPaymentNotice(evt *booking.PaymentCompletedEvent, recipients []string) (shared.EmailMessage, error) {
	data := r.PaymentData(evt)
	text, err := r.renderText("staff_payment.txt.tmpl", data)
	if err != nil {
		return shared.EmailMessage{}, err
	}
	subject := fmt.Sprintf("Paid consultation %s: %s", evt.Reference, evt.ClientName)
	if evt.LateConfirmation {
		subject = "[CHECK SLOT] " + subject
	}
	return shared.EmailMessage{
		To:       recipients,
		ReplyTo:  evt.ClientEmail,
		Subject:  subject,
		TextBody: text,
	}, nil
}

// PaymentChat is the chat notice for a paid consultation
func (r *Renderer) PaymentChat(evt *booking.PaymentCompletedEvent) shared.ChatMessage {
	data := r.PaymentData(evt)
	title := "Consultation booked and paid"
	text := fmt.Sprintf("*%s* booked a %s for *%s*.", evt.ClientName, strings.ToLower(data.ConsultationLabel), data.SlotDisplay)
	if evt.LateConfirmation {
		title = "Late payment on an expired hold"
		text += " The hold had expired before payment; check the slot for a clash."
	}
	fields := []shared.ChatField{
		{Label: "Reference", Value: evt.Reference},
		{Label: "Amount", Value: data.AmountDisplay},
		{Label: "Email", Value: evt.ClientEmail},
	}
	if evt.ClientPhone != "" {
		fields = append(fields, shared.ChatField{Label: "Phone", Value: evt.ClientPhone})
	}
	if data.PracticeArea != "" {
		fields = append(fields, shared.ChatField{Label: "Practice area", Value: data.PracticeArea})
	}
	return shared.ChatMessage{
		Title:   title,
		Text:    text,
		Fields:  fields,
		LinkURL: data.AdminURL,
	}
}

// EnquiryData builds the view model for an enquiry
func (r *Renderer) EnquiryData(e *enquiry.Enquiry, stored bool) EnquiryData {
	data := EnquiryData{
		Firm:            r.firm,
		Name:            e.Name,
		Email:           e.Email,
		Phone:           e.Phone,
		Subject:         e.Subject,
		Message:         e.Message,
		ReceivedDisplay: e.CreatedAt.In(r.loc).Format("2 January 2006 15:04 MST"),
		Stored:          stored,
	}
	if stored && r.firm.AdminURL != "" {
		data.AdminURL = strings.TrimRight(r.firm.AdminURL, "/") + "/enquiries/" + e.ID.String()
	}
	return data
}

// EnquiryStaffNotice relays an enquiry to the firm's inbox
func (r *Renderer) EnquiryStaffNotice(e *enquiry.Enquiry, stored bool, recipients []string) (shared.EmailMessage, error) {
	text, err := r.renderText("enquiry_staff.txt.tmpl", r.EnquiryData(e, stored))
	if err != nil {
		return shared.EmailMessage{}, err
	}
	return shared.EmailMessage{
		To:       recipients,
		ReplyTo:  e.Email,
		Subject:  "Website enquiry: " + e.Subject,
		TextBody: text,
	}, nil
}

// EnquiryAcknowledgement thanks the sender
func (r *Renderer) EnquiryAcknowledgement(e *enquiry.Enquiry) (shared.EmailMessage, error) {
	data := r.EnquiryData(e, true)
	text, err := r.renderText("enquiry_ack.txt.tmpl", data)
	if err != nil {
		return shared.EmailMessage{}, err
	}
	html, err := r.renderHTML("enquiry_ack.html.tmpl", data)
	if err != nil {
		return shared.EmailMessage{}, err
	}
	return shared.EmailMessage{
		To:       []string{e.Email},
		Subject:  "We received your enquiry",
		TextBody: text,
		HTMLBody: html,
	}, nil
}

// EnquiryChat is the chat notice for a new enquiry
func (r *Renderer) EnquiryChat(e *enquiry.Enquiry, stored bool) shared.ChatMessage {
	data := r.EnquiryData(e, stored)
	text := truncateRunes(e.Message, 500)
	if !stored {
		text = ":warning: Not saved to the database, this message is the only copy.\n" + text
	}
	fields := []shared.ChatField{
		{Label: "Name", Value: e.Name},
		{Label: "Email", Value: e.Email},
		{Label: "Subject", Value: e.Subject},
	}
	if e.Phone != "" {
		fields = append(fields, shared.ChatField{Label: "Phone", Value: e.Phone})
	}
	return shared.ChatMessage{
		Title:   "New website enquiry",
		Text:    text,
		Fields:  fields,
		LinkURL: data.AdminURL,
	}
}

func (r *Renderer) slotDisplay(date, clock string) string {
	slot, err := booking.ParseSlot(date, clock)
	if err != nil {
		return strings.TrimSpace(date + " " + clock)
	}
	return slot.Start(r.loc).Format("Monday 2 January 2006 at 15:04")
}

func (r *Renderer) practiceArea(slug string) string {
	if slug == "" {
		return ""
	}
	if r.areaTitle != nil {
		if title := r.areaTitle(slug); title != "" {
			return title
		}
	}
	return slug
}

func (r *Renderer) renderText(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.text.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) renderHTML(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.html.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
