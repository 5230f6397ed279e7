package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"bwibber-backend/internal/generator"
)

// GenerateHandler serves the lightweight generation endpoints used by the
// composer preview. Configurations are keyed by the X-User-Id header and
// held in memory only — nothing here touches the database or the ledger.
type GenerateHandler struct {
	mu         sync.RWMutex
	generators map[string]*generator.Generator
}

// NewGenerateHandler creates a new GenerateHandler
func NewGenerateHandler() *GenerateHandler {
	return &GenerateHandler{
		generators: make(map[string]*generator.Generator),
	}
}

// ConfigureBot stores an in-memory generator configuration for the caller
// POST /api/bot/configure
func (h *GenerateHandler) ConfigureBot(c *gin.Context) {
	userID := c.GetHeader("X-User-Id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-Id header is required"})
		return
	}

	var cfg generator.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if cfg.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	h.mu.Lock()
	h.generators[userID] = generator.New(cfg)
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message": "Bot configured",
		"config":  cfg,
	})
}

// GeneratePreview produces a post for the caller's stored configuration.
// Clients send either topic or prompt; topic wins when both are present.
// POST /api/generate
func (h *GenerateHandler) GeneratePreview(c *gin.Context) {
	userID := c.GetHeader("X-User-Id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-Id header is required"})
		return
	}

	var req struct {
		Topic  string `json:"topic"`
		Prompt string `json:"prompt"`
	}
	_ = c.ShouldBindJSON(&req)

	topic := req.Topic
	if topic == "" {
		topic = req.Prompt
	}

	h.mu.RLock()
	gen, ok := h.generators[userID]
	h.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bot is not configured. Call /api/bot/configure first"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": gen.GeneratePost(topic),
	})
}
