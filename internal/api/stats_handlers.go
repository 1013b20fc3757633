package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"mclub-backend/internal/services"
)

// StatsHandlers exposes the dashboard view
type StatsHandlers struct {
	stats *services.StatsService
}

// NewStatsHandlers creates stats handlers
func NewStatsHandlers(stats *services.StatsService) *StatsHandlers {
	return &StatsHandlers{stats: stats}
}

// GetDashboard handles GET /stats/dashboard
func (h *StatsHandlers) GetDashboard(c *gin.Context) {
	stats, err := h.stats.DashboardStats(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
