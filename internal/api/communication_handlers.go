package api

import (
	"github.com/gin-gonic/gin"

	"mclub-backend/internal/models"
	"mclub-backend/internal/services"
)

// CommunicationHandlers exposes the member contact log
type CommunicationHandlers struct {
	communications *services.CommunicationService
}

// NewCommunicationHandlers creates communication handlers
func NewCommunicationHandlers(communications *services.CommunicationService) *CommunicationHandlers {
	return &CommunicationHandlers{communications: communications}
}

// ListLogs handles GET /communications with optional memberId filter
func (h *CommunicationHandlers) ListLogs(c *gin.Context) {
	logs, err := h.communications.ListLogs(c.Query("memberId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, logs)
}

// CreateLog handles POST /communications
func (h *CommunicationHandlers) CreateLog(c *gin.Context) {
	var req models.CommunicationCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	entry, err := h.communications.CreateLog(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, entry)
}
