// Package enquiry handles contact form submissions and their triage.
package enquiry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/application/notification"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/enquiry"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrNotDelivered is returned when an enquiry was neither stored nor relayed anywhere
var ErrNotDelivered = shared.NewDomainError("ENQUIRY_NOT_DELIVERED", "Your enquiry could not be delivered, please call us or try again later")

// Service runs the enquiry pipeline
type Service struct {
	repo            enquiry.Repository
	mailer          shared.Mailer
	chat            shared.ChatNotifier
	renderer        *notification.Renderer
	staffRecipients []string
	logger          *zap.Logger
}

// NewService creates a new enquiry Service
func NewService(
	repo enquiry.Repository,
	mailer shared.Mailer,
	chat shared.ChatNotifier,
	renderer *notification.Renderer,
	staffRecipients []string,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:            repo,
		mailer:          mailer,
		chat:            chat,
		renderer:        renderer,
		staffRecipients: staffRecipients,
		logger:          logger,
	}
}

// Submit validates and stores an enquiry, then relays it to staff.
// Storage and relay are independent: either one succeeding is enough.
// The sender is only acknowledged once the firm actually has the enquiry.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, meta SubmitMeta) (_ *SubmitResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "enquiry", "submit",
		telemetry.SpanAttrEnquirySource, req.Source)
	defer func() { telemetry.EndSpan(span, err) }()

	e, err := enquiry.NewEnquiry(enquiry.Details{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return nil, err
	}
	e.SetOrigin(req.Source, meta.IP, meta.UserAgent)

	result := &SubmitResult{}
	if err := s.repo.Save(ctx, e); err != nil {
		s.logger.Error("Failed to store enquiry",
			zap.String("enquiry_id", e.ID.String()),
			zap.Error(err))
	} else {
		result.Stored = true
		result.ID = &e.ID
	}

	emailed := s.notifyStaffByEmail(ctx, e, result.Stored)
	chatted := s.notifyChat(ctx, e, result.Stored)
	result.Notified = emailed || chatted
	telemetry.SetAttributes(span,
		telemetry.SpanAttrEnquiryID, e.ID,
		"stored", result.Stored,
		"notified", result.Notified)

	if !result.Stored && !result.Notified {
		s.logger.Error("Enquiry was not delivered anywhere",
			zap.String("email", e.Email),
			zap.String("subject", e.Subject))
		return nil, ErrNotDelivered
	}

	s.acknowledge(ctx, e)

	s.logger.Info("Enquiry received",
		zap.String("enquiry_id", e.ID.String()),
		zap.Bool("stored", result.Stored),
		zap.Bool("emailed", emailed),
		zap.Bool("chatted", chatted))
	return result, nil
}

func (s *Service) notifyStaffByEmail(ctx context.Context, e *enquiry.Enquiry, stored bool) bool {
	if s.mailer == nil || !s.mailer.Enabled() || len(s.staffRecipients) == 0 {
		return false
	}
	msg, err := s.renderer.EnquiryStaffNotice(e, stored, s.staffRecipients)
	if err != nil {
		s.logger.Error("Failed to render enquiry notice", zap.Error(err))
		return false
	}
	return s.send(ctx, "staff_email", e, func() error { return s.mailer.Send(ctx, msg) })
}

func (s *Service) notifyChat(ctx context.Context, e *enquiry.Enquiry, stored bool) bool {
	if s.chat == nil || !s.chat.Enabled() {
		return false
	}
	msg := s.renderer.EnquiryChat(e, stored)
	return s.send(ctx, "chat", e, func() error { return s.chat.Notify(ctx, msg) })
}

func (s *Service) acknowledge(ctx context.Context, e *enquiry.Enquiry) {
	if s.mailer == nil || !s.mailer.Enabled() {
		return
	}
	msg, err := s.renderer.EnquiryAcknowledgement(e)
	if err != nil {
		s.logger.Error("Failed to render enquiry acknowledgement", zap.Error(err))
		return
	}
	s.send(ctx, "acknowledgement", e, func() error { return s.mailer.Send(ctx, msg) })
}

func (s *Service) send(ctx context.Context, channel string, e *enquiry.Enquiry, fn func() error) bool {
	err := fn()
	if err == nil {
		return true
	}
	if errors.Is(err, shared.ErrChannelDisabled) {
		return false
	}
	s.logger.Warn("Enquiry notification failed",
		zap.String("channel", channel),
		zap.String("enquiry_id", e.ID.String()),
		zap.Error(err))
	return false
}

// List returns a page of enquiries for the back office
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Response, int64, error) {
	domainFilter := enquiry.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Status: enquiry.Status(filter.Status),
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "created_at"
		domainFilter.OrderDir = "desc"
	}

	items, total, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToResponses(items), total, nil
}

// Get returns one enquiry
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(e)
	return &resp, nil
}

// UpdateStatus moves an enquiry to a new triage state
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*Response, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	version := e.Version
	if err := e.ChangeStatus(enquiry.Status(req.Status)); err != nil {
		return nil, err
	}
	if e.Version != version {
		if err := s.repo.Save(ctx, e); err != nil {
			return nil, err
		}
		s.logger.Info("Enquiry status changed",
			zap.String("enquiry_id", e.ID.String()),
			zap.String("status", string(e.Status)))
	}
	resp := ToResponse(e)
	return &resp, nil
}

// Delete removes an enquiry
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Enquiry deleted", zap.String("enquiry_id", id.String()))
	return nil
}
