// Package dashboard computes the back-office month-over-month summary.
package dashboard

import (
	"context"
	"fmt"
	"time"

	blogapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/blog"
	bookingapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/booking"
	enquiryapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/enquiry"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/blog"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/enquiry"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecentLimit is how many recent items of each kind the summary carries
const RecentLimit = 5

// Service builds the dashboard summary
type Service struct {
	enquiries enquiry.Repository
	bookings  booking.Repository
	payments  booking.PaymentRepository
	posts     blog.PostRepository
	currency  valueobject.Currency
	location  *time.Location
	logger    *zap.Logger
}

// NewService creates a new dashboard Service. Months are computed in loc.
func NewService(
	enquiries enquiry.Repository,
	bookings booking.Repository,
	payments booking.PaymentRepository,
	posts blog.PostRepository,
	currency valueobject.Currency,
	loc *time.Location,
	logger *zap.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &Service{
		enquiries: enquiries,
		bookings:  bookings,
		payments:  payments,
		posts:     posts,
		currency:  currency,
		location:  loc,
		logger:    logger,
	}
}

// CountMetric compares a count across two months
type CountMetric struct {
	Current       int64    `json:"current"`
	Previous      int64    `json:"previous"`
	ChangePercent *float64 `json:"change_percent"`
}

// MoneyMetric compares a decimal sum across two months
type MoneyMetric struct {
	Current       string   `json:"current"`
	Previous      string   `json:"previous"`
	Currency      string   `json:"currency"`
	ChangePercent *float64 `json:"change_percent"`
}

// Period is a half-open month range
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Metrics are the month-over-month figures
type Metrics struct {
	Enquiries         CountMetric `json:"enquiries"`
	BookingsConfirmed CountMetric `json:"bookings_confirmed"`
	Revenue           MoneyMetric `json:"revenue"`
	PostsPublished    CountMetric `json:"posts_published"`
}

// Totals are running counts
type Totals struct {
	Enquiries        int64 `json:"enquiries"`
	NewEnquiries     int64 `json:"new_enquiries"`
	PublishedPosts   int64 `json:"published_posts"`
	UpcomingBookings int64 `json:"upcoming_bookings"`
}

// Recent carries the latest items of each kind
type Recent struct {
	Enquiries []enquiryapp.Response        `json:"enquiries"`
	Payments  []bookingapp.PaymentResponse `json:"payments"`
	Posts     []blogapp.PostListItem       `json:"posts"`
}

// Summary is the dashboard payload
type Summary struct {
	GeneratedAt    time.Time `json:"generated_at"`
	Timezone       string    `json:"timezone"`
	CurrentPeriod  Period    `json:"current_period"`
	PreviousPeriod Period    `json:"previous_period"`
	Metrics        Metrics   `json:"metrics"`
	Totals         Totals    `json:"totals"`
	Recent         Recent    `json:"recent"`
}

// Summary compares the calendar month containing now with the one before
func (s *Service) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	curStart, curEnd := booking.MonthBounds(now, s.location)
	prevStart, prevEnd := booking.MonthBounds(curStart.AddDate(0, -1, 0), s.location)

	out := &Summary{
		GeneratedAt:    now,
		Timezone:       s.location.String(),
		CurrentPeriod:  Period{Start: curStart, End: curEnd},
		PreviousPeriod: Period{Start: prevStart, End: prevEnd},
	}

	var err error
	if out.Metrics.Enquiries, err = s.countMetric(ctx, "enquiries", s.enquiries.CountCreatedBetween, curStart, curEnd, prevStart, prevEnd); err != nil {
		return nil, err
	}
	if out.Metrics.BookingsConfirmed, err = s.countMetric(ctx, "bookings", s.bookings.CountConfirmedBetween, curStart, curEnd, prevStart, prevEnd); err != nil {
		return nil, err
	}
	if out.Metrics.PostsPublished, err = s.countMetric(ctx, "posts", s.posts.CountPublishedBetween, curStart, curEnd, prevStart, prevEnd); err != nil {
		return nil, err
	}
	if out.Metrics.Revenue, err = s.revenueMetric(ctx, curStart, curEnd, prevStart, prevEnd); err != nil {
		return nil, err
	}

	if out.Totals, err = s.totals(ctx, now); err != nil {
		return nil, err
	}
	if out.Recent, err = s.recent(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

type countFunc func(ctx context.Context, from, to time.Time) (int64, error)

func (s *Service) countMetric(ctx context.Context, name string, count countFunc, curStart, curEnd, prevStart, prevEnd time.Time) (CountMetric, error) {
	cur, err := count(ctx, curStart, curEnd)
	if err != nil {
		s.logger.Error("Dashboard count failed", zap.String("metric", name), zap.Error(err))
		return CountMetric{}, fmt.Errorf("count %s: %w", name, err)
	}
	prev, err := count(ctx, prevStart, prevEnd)
	if err != nil {
		s.logger.Error("Dashboard count failed", zap.String("metric", name), zap.Error(err))
		return CountMetric{}, fmt.Errorf("count %s: %w", name, err)
	}
	return CountMetric{
		Current:       cur,
		Previous:      prev,
		ChangePercent: ChangePercent(decimal.NewFromInt(cur), decimal.NewFromInt(prev)),
	}, nil
}

func (s *Service) revenueMetric(ctx context.Context, curStart, curEnd, prevStart, prevEnd time.Time) (MoneyMetric, error) {
	cur, err := s.payments.SumPaidBetween(ctx, curStart, curEnd, s.currency)
	if err != nil {
		return MoneyMetric{}, fmt.Errorf("sum revenue: %w", err)
	}
	prev, err := s.payments.SumPaidBetween(ctx, prevStart, prevEnd, s.currency)
	if err != nil {
		return MoneyMetric{}, fmt.Errorf("sum revenue: %w", err)
	}
	return MoneyMetric{
		Current:       cur.StringFixed(),
		Previous:      prev.StringFixed(),
		Currency:      string(s.currency),
		ChangePercent: ChangePercent(cur.Amount(), prev.Amount()),
	}, nil
}

func (s *Service) totals(ctx context.Context, now time.Time) (Totals, error) {
	var t Totals

	_, all, err := s.enquiries.FindAll(ctx, enquiry.Filter{Filter: shared.Filter{Page: 1, PageSize: 1}})
	if err != nil {
		return t, fmt.Errorf("count enquiries: %w", err)
	}
	t.Enquiries = all

	if t.NewEnquiries, err = s.enquiries.CountByStatus(ctx, enquiry.StatusNew); err != nil {
		return t, fmt.Errorf("count new enquiries: %w", err)
	}
	if t.PublishedPosts, err = s.posts.CountByStatus(ctx, blog.PostStatusPublished); err != nil {
		return t, fmt.Errorf("count published posts: %w", err)
	}
	today := now.In(s.location).Format(booking.DateLayout)
	if t.UpcomingBookings, err = s.bookings.CountUpcomingConfirmed(ctx, today); err != nil {
		return t, fmt.Errorf("count upcoming bookings: %w", err)
	}
	return t, nil
}

func (s *Service) recent(ctx context.Context) (Recent, error) {
	enquiries, err := s.enquiries.FindRecent(ctx, RecentLimit)
	if err != nil {
		return Recent{}, fmt.Errorf("recent enquiries: %w", err)
	}
	payments, err := s.payments.FindRecent(ctx, RecentLimit)
	if err != nil {
		return Recent{}, fmt.Errorf("recent payments: %w", err)
	}
	posts, err := s.posts.FindRecent(ctx, RecentLimit)
	if err != nil {
		return Recent{}, fmt.Errorf("recent posts: %w", err)
	}
	return Recent{
		Enquiries: enquiryapp.ToResponses(enquiries),
		Payments:  bookingapp.ToPaymentResponses(payments),
		Posts:     blogapp.ToPostListItems(posts),
	}, nil
}

// ChangePercent is (current-previous)/previous*100 rounded to one decimal.
// It is nil when previous is zero.
func ChangePercent(current, previous decimal.Decimal) *float64 {
	if previous.IsZero() {
		return nil
	}
	pct, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	return &pct
}
