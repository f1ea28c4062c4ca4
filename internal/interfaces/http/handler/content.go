package handler

import (
	"github.com/gin-gonic/gin"
	contentapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/content"
)

// ContentHandler serves the firm's static content catalog
type ContentHandler struct {
	BaseHandler
	content *contentapp.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(content *contentapp.Service) *ContentHandler {
	return &ContentHandler{content: content}
}

// ListPracticeAreas handles GET /content/practice-areas
func (h *ContentHandler) ListPracticeAreas(c *gin.Context) {
	h.Success(c, h.content.ListPracticeAreas())
}

// GetPracticeArea handles GET /content/practice-areas/:slug
func (h *ContentHandler) GetPracticeArea(c *gin.Context) {
	area, err := h.content.GetPracticeArea(c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, area)
}

// ListTeam handles GET /content/team
func (h *ContentHandler) ListTeam(c *gin.Context) {
	h.Success(c, h.content.ListTeam())
}

// GetTeamMember handles GET /content/team/:slug
func (h *ContentHandler) GetTeamMember(c *gin.Context) {
	member, err := h.content.GetTeamMember(c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// ListLocations handles GET /content/locations
func (h *ContentHandler) ListLocations(c *gin.Context) {
	h.Success(c, h.content.ListLocations())
}

// ListFAQs handles GET /content/faqs?category=
func (h *ContentHandler) ListFAQs(c *gin.Context) {
	h.Success(c, h.content.ListFAQs(c.Query("category")))
}

// ListTestimonials handles GET /content/testimonials
func (h *ContentHandler) ListTestimonials(c *gin.Context) {
	h.Success(c, h.content.ListTestimonials())
}
