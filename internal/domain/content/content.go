// Package content holds the firm's published marketing content.
package content

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrPracticeAreaNotFound = shared.NewDomainError("NOT_FOUND", "Practice area not found")
	ErrTeamMemberNotFound   = shared.NewDomainError("NOT_FOUND", "Team member not found")
)

// PracticeArea is an area of law the firm advises on
type PracticeArea struct {
	Slug    string `json:"slug" mapstructure:"slug"`
	Title   string `json:"title" mapstructure:"title"`
	Summary string `json:"summary" mapstructure:"summary"`
	Body    string `json:"body,omitempty" mapstructure:"body"`
	Icon    string `json:"icon,omitempty" mapstructure:"icon"`
	Order   int    `json:"order" mapstructure:"order"`
}

// TeamMember is a lawyer or staff profile
type TeamMember struct {
	Slug          string   `json:"slug" mapstructure:"slug"`
	Name          string   `json:"name" mapstructure:"name"`
	Role          string   `json:"role" mapstructure:"role"`
	Bio           string   `json:"bio,omitempty" mapstructure:"bio"`
	PhotoURL      string   `json:"photo_url,omitempty" mapstructure:"photo_url"`
	Email         string   `json:"email,omitempty" mapstructure:"email"`
	PracticeAreas []string `json:"practice_areas,omitempty" mapstructure:"practice_areas"`
}

// Location is an office
type Location struct {
	Slug        string  `json:"slug" mapstructure:"slug"`
	Name        string  `json:"name" mapstructure:"name"`
	Address     string  `json:"address" mapstructure:"address"`
	Phone       string  `json:"phone,omitempty" mapstructure:"phone"`
	Email       string  `json:"email,omitempty" mapstructure:"email"`
	Hours       string  `json:"hours,omitempty" mapstructure:"hours"`
	Latitude    float64 `json:"latitude,omitempty" mapstructure:"latitude"`
	Longitude   float64 `json:"longitude,omitempty" mapstructure:"longitude"`
	MapEmbedURL string  `json:"map_embed_url" mapstructure:"-"`
}

// mapEmbedURL prefers coordinates and falls back to the street address
func (l Location) mapEmbedURL() string {
	q := l.Address
	if l.Latitude != 0 || l.Longitude != 0 {
		q = fmt.Sprintf("%f,%f", l.Latitude, l.Longitude)
	}
	if q == "" {
		return ""
	}
	return "https://maps.google.com/maps?output=embed&q=" + url.QueryEscape(q)
}

// FAQ is a frequently asked question
type FAQ struct {
	Question string `json:"question" mapstructure:"question"`
	Answer   string `json:"answer" mapstructure:"answer"`
	Category string `json:"category,omitempty" mapstructure:"category"`
}

// Testimonial is a client quote
type Testimonial struct {
	Author string `json:"author" mapstructure:"author"`
	Quote  string `json:"quote" mapstructure:"quote"`
	Rating int    `json:"rating" mapstructure:"rating"`
}

// Catalog is the full content set
type Catalog struct {
	PracticeAreas []PracticeArea `mapstructure:"practice_areas"`
	Team          []TeamMember   `mapstructure:"team"`
	Locations     []Location     `mapstructure:"locations"`
	FAQs          []FAQ          `mapstructure:"faqs"`
	Testimonials  []Testimonial  `mapstructure:"testimonials"`
}

// titleFromSlug turns "family-law" into "Family Law"
func titleFromSlug(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// Prepare validates the catalog, sorts practice areas and fills derived fields
func (c *Catalog) Prepare() error {
	seen := make(map[string]bool)
	for i := range c.PracticeAreas {
		p := &c.PracticeAreas[i]
		p.Slug = strings.TrimSpace(p.Slug)
		if p.Slug == "" {
			return fmt.Errorf("practice area %d: slug is required", i)
		}
		if strings.TrimSpace(p.Title) == "" {
			p.Title = titleFromSlug(p.Slug)
		}
		if seen[p.Slug] {
			return fmt.Errorf("duplicate practice area slug %q", p.Slug)
		}
		seen[p.Slug] = true
	}
	sort.SliceStable(c.PracticeAreas, func(i, j int) bool {
		a, b := c.PracticeAreas[i], c.PracticeAreas[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Title < b.Title
	})

	seen = make(map[string]bool)
	for i := range c.Team {
		m := &c.Team[i]
		m.Slug = strings.TrimSpace(m.Slug)
		if m.Slug == "" || m.Name == "" {
			return fmt.Errorf("team member %d: slug and name are required", i)
		}
		if seen[m.Slug] {
			return fmt.Errorf("duplicate team member slug %q", m.Slug)
		}
		seen[m.Slug] = true
	}

	seen = make(map[string]bool)
	for i := range c.Locations {
		l := &c.Locations[i]
		if l.Slug == "" || l.Name == "" {
			return fmt.Errorf("location %d: slug and name are required", i)
		}
		if seen[l.Slug] {
			return fmt.Errorf("duplicate location slug %q", l.Slug)
		}
		seen[l.Slug] = true
		l.MapEmbedURL = l.mapEmbedURL()
	}

	for i, t := range c.Testimonials {
		if t.Rating < 1 || t.Rating > 5 {
			return fmt.Errorf("testimonial %d: rating must be between 1 and 5", i)
		}
	}
	return nil
}

// PracticeArea finds a practice area by slug
func (c *Catalog) PracticeArea(slug string) (PracticeArea, error) {
	for _, p := range c.PracticeAreas {
		if p.Slug == slug {
			return p, nil
		}
	}
	return PracticeArea{}, ErrPracticeAreaNotFound
}

// HasPracticeArea reports whether slug names a practice area
func (c *Catalog) HasPracticeArea(slug string) bool {
	_, err := c.PracticeArea(slug)
	return err == nil
}

// TeamMember finds a profile by slug
func (c *Catalog) TeamMember(slug string) (TeamMember, error) {
	for _, m := range c.Team {
		if m.Slug == slug {
			return m, nil
		}
	}
	return TeamMember{}, ErrTeamMemberNotFound
}

// FAQsIn returns FAQs in category, or all when category is empty. Matching ignores case.
func (c *Catalog) FAQsIn(category string) []FAQ {
	if category == "" {
		return c.FAQs
	}
	out := make([]FAQ, 0)
	for _, f := range c.FAQs {
		if strings.EqualFold(f.Category, category) {
			out = append(out, f)
		}
	}
	return out
}

// IsEmpty reports whether the catalog carries no content at all
func (c *Catalog) IsEmpty() bool {
	return len(c.PracticeAreas) == 0 && len(c.Team) == 0 && len(c.Locations) == 0 &&
		len(c.FAQs) == 0 && len(c.Testimonials) == 0
}
