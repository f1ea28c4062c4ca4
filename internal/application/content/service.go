// Package content serves the firm's read-only marketing content.
package content

import (
	"strings"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/content"
)

// Service exposes a loaded catalog
type Service struct {
	catalog *content.Catalog
}

// NewService wraps a prepared catalog. A nil catalog is treated as empty.
func NewService(catalog *content.Catalog) *Service {
	if catalog == nil {
		catalog = &content.Catalog{}
	}
	return &Service{catalog: catalog}
}

func (s *Service) ListPracticeAreas() []content.PracticeArea {
	return nonNil(s.catalog.PracticeAreas)
}

func (s *Service) GetPracticeArea(slug string) (*content.PracticeArea, error) {
	p, err := s.catalog.PracticeArea(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// HasPracticeArea is used by booking validation
func (s *Service) HasPracticeArea(slug string) bool {
	return s.catalog.HasPracticeArea(slug)
}

// PracticeAreaCount is zero when no practice areas are published
func (s *Service) PracticeAreaCount() int {
	return len(s.catalog.PracticeAreas)
}

// PracticeAreaTitle returns the display title for slug, or "" when unknown
func (s *Service) PracticeAreaTitle(slug string) string {
	p, err := s.catalog.PracticeArea(slug)
	if err != nil {
		return ""
	}
	return p.Title
}

func (s *Service) ListTeam() []content.TeamMember {
	return nonNil(s.catalog.Team)
}

func (s *Service) GetTeamMember(slug string) (*content.TeamMember, error) {
	m, err := s.catalog.TeamMember(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) ListLocations() []content.Location {
	return nonNil(s.catalog.Locations)
}

// ListFAQs filters by category when one is given
func (s *Service) ListFAQs(category string) []content.FAQ {
	return nonNil(s.catalog.FAQsIn(strings.TrimSpace(category)))
}

func (s *Service) ListTestimonials() []content.Testimonial {
	return nonNil(s.catalog.Testimonials)
}

// nonNil keeps empty collections encoding as [] rather than null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
