package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bwibber-backend/internal/auth"
	"bwibber-backend/internal/models"
	"bwibber-backend/internal/services"
)

// BotHandler handles bot lifecycle endpoints
type BotHandler struct {
	botService   *services.BotService
	tokenService *services.TokenService
}

// NewBotHandler creates a new BotHandler
func NewBotHandler(botService *services.BotService, tokenService *services.TokenService) *BotHandler {
	return &BotHandler{
		botService:   botService,
		tokenService: tokenService,
	}
}

// CreateBot creates a bot for the authenticated user
// POST /api/bots
func (h *BotHandler) CreateBot(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	var cfg services.BotConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	bot, err := h.botService.CreateBot(userID, cfg)
	if err != nil {
		respondError(c, err)
		return
	}

	// Re-fetch the authoritative balance after the charge.
	balance, err := h.tokenService.GetBalance(userID.String())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"bot":     bot,
		"balance": balance,
	})
}

// ListBots returns the authenticated user's bots
// GET /api/bots
func (h *BotHandler) ListBots(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	bots, err := h.botService.ListBots(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bots": bots,
	})
}

// GetBot returns one bot owned by the authenticated user
// GET /api/bots/:id
func (h *BotHandler) GetBot(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	bot, err := h.botService.GetBot(c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bot": bot,
	})
}

// UpdateStatus transitions a bot between active, paused, and archived
// PATCH /api/bots/:id/status
func (h *BotHandler) UpdateStatus(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	var req struct {
		Status models.BotStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	if err := h.botService.UpdateStatus(c.Param("id"), userID, req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bot status updated",
	})
}

// GeneratePost generates and stores a post for a bot, charging the
// post-generation cost
// POST /api/bots/:id/generate
func (h *BotHandler) GeneratePost(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	var req struct {
		Topic string `json:"topic"`
	}
	// Topic is optional; the bot's first configured topic is the default.
	_ = c.ShouldBindJSON(&req)

	post, err := h.botService.GeneratePost(c.Param("id"), userID, req.Topic)
	if err != nil {
		respondError(c, err)
		return
	}

	balance, err := h.tokenService.GetBalance(userID.String())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"post":    post,
		"balance": balance,
	})
}

// CreateTemplate generates a bot template from a free-text prompt
// POST /api/templates
func (h *BotHandler) CreateTemplate(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	template, err := h.botService.CreateTemplate(userID, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"template": template,
	})
}

// ListTemplates returns all bot templates
// GET /api/templates
func (h *BotHandler) ListTemplates(c *gin.Context) {
	templates, err := h.botService.ListTemplates()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
	})
}
