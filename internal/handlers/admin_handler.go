package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bwibber-backend/internal/auth"
	"bwibber-backend/internal/models"
	"bwibber-backend/internal/services"
)

// AdminHandler handles the admin panel endpoints
type AdminHandler struct {
	adminService  *services.AdminService
	reportService *services.ReportService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *services.AdminService, reportService *services.ReportService) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		reportService: reportService,
	}
}

// AdminMiddleware rejects requests from non-admin users. It must run
// after AuthMiddleware.
func (h *AdminHandler) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		if !h.adminService.IsAdmin(userID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetStats returns the platform-wide dashboard counters
// GET /api/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetSystemStats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// GetTokenCosts returns the current token cost settings
// GET /api/admin/token-costs
func (h *AdminHandler) GetTokenCosts(c *gin.Context) {
	costs, err := h.adminService.GetTokenCosts()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"costs": costs,
	})
}

// UpdateTokenCosts replaces the token cost settings
// PUT /api/admin/token-costs
func (h *AdminHandler) UpdateTokenCosts(c *gin.Context) {
	adminID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	var req struct {
		BotCreation      *int `json:"bot_creation" binding:"required"`
		PostGeneration   *int `json:"post_generation" binding:"required"`
		TemplateCreation *int `json:"template_creation" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bot_creation, post_generation and template_creation are required"})
		return
	}

	costs, err := h.adminService.UpdateTokenCosts(*req.BotCreation, *req.PostGeneration, *req.TemplateCreation, adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"costs": costs,
	})
}

// GetUsers lists users with optional email/name search
// GET /api/admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := h.adminService.GetAllUsers(limit, offset, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// PromoteUser grants admin rights to a user
// POST /api/admin/users/:id/promote
func (h *AdminHandler) PromoteUser(c *gin.Context) {
	adminID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	user, err := h.adminService.PromoteToAdmin(c.Param("id"), adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User promoted to admin",
		"user":    user,
	})
}

// GetLogs returns the admin action audit trail, newest first
// GET /api/admin/logs
func (h *AdminHandler) GetLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := h.adminService.GetAdminLogs(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
	})
}

// GetReports lists reports, optionally filtered by status
// GET /api/admin/reports
func (h *AdminHandler) GetReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reports, err := h.reportService.ListReports(models.ReportStatus(c.Query("status")), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
	})
}

// ResolveReport closes a pending report as resolved or dismissed
// POST /api/admin/reports/:id/resolve
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	adminID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	var req struct {
		Status models.ReportStatus `json:"status" binding:"required"`
		Notes  string              `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	report, err := h.reportService.ResolveReport(c.Param("id"), adminID, req.Status, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": report,
	})
}
