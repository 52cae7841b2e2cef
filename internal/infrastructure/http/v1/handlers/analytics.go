package handlers

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain/analytics"
)

// AnalyticsHandler handles HTTP requests for financial statistics.
type AnalyticsHandler struct {
	*BaseHandler
	service *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(base *BaseHandler, service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{BaseHandler: base, service: service}
}

// Stats handles GET /stats
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// DailySummaries handles GET /daily-summaries?range=today|week|month|quarter|all
func (h *AnalyticsHandler) DailySummaries(c *gin.Context) {
	dateRange := analytics.DateRange(c.DefaultQuery("range", string(analytics.RangeAll)))

	summaries, err := h.service.DailySummaries(c.Request.Context(), dateRange)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summaries)
}
