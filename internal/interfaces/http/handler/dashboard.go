package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/manutdmohit/proficientlegal-sub000/internal/application/dashboard"
)

// DashboardService builds the back-office summary
type DashboardService interface {
	Summary(ctx context.Context, now time.Time) (*dashboard.Summary, error)
}

// DashboardHandler serves the back-office dashboard
type DashboardHandler struct {
	BaseHandler
	dashboard DashboardService
	now       func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: svc, now: time.Now}
}

// Summary handles GET /admin/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context(), h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
