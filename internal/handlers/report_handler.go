package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bwibber-backend/internal/auth"
	"bwibber-backend/internal/models"
	"bwibber-backend/internal/services"
)

// ReportHandler handles moderation report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SubmitReport files a report against a user or a bot
// POST /api/reports
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	var req struct {
		Type       models.ReportType `json:"type" binding:"required"`
		ReportedID string            `json:"reported_id" binding:"required"`
		Reason     string            `json:"reason" binding:"required"`
		Details    string            `json:"details"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type, reported_id and reason are required"})
		return
	}

	report, err := h.reportService.SubmitReport(userID, req.Type, req.ReportedID, req.Reason, req.Details)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"report": report,
	})
}

// GetReportReasons lists the accepted report reasons so clients can render
// the selector without hardcoding them
// GET /api/reports/reasons
func (h *ReportHandler) GetReportReasons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"reasons": models.ReportReasons,
	})
}
