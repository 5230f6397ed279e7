package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bwibber-backend/internal/auth"
	"bwibber-backend/internal/models"
	"bwibber-backend/internal/services"
)

// TokenHandler handles token wallet endpoints
type TokenHandler struct {
	db           *gorm.DB
	tokenService *services.TokenService
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(db *gorm.DB, tokenService *services.TokenService) *TokenHandler {
	return &TokenHandler{db: db, tokenService: tokenService}
}

// GetBalance returns the authenticated user's current balance
// GET /api/tokens/balance
func (h *TokenHandler) GetBalance(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	balance, err := h.tokenService.GetBalance(userID.String())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance": balance,
	})
}

// GetTransactions returns the user's recent ledger entries
// GET /api/tokens/transactions
func (h *TokenHandler) GetTransactions(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	transactions, err := h.tokenService.ListTransactions(userID.String(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
	})
}

// GetPackages lists the purchasable token packages
// GET /api/tokens/packages
func (h *TokenHandler) GetPackages(c *gin.Context) {
	var packages []models.TokenPackage
	if err := h.db.Order("tokens ASC").Find(&packages).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packages": packages,
	})
}

// PurchaseTokens records a simulated token purchase. The response carries
// the authoritative post-purchase balance so the client never extrapolates
// from a cached value.
// POST /api/tokens/purchase
func (h *TokenHandler) PurchaseTokens(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	var req struct {
		Amount    int    `json:"amount" binding:"required"`
		PackageID string `json:"package_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount and package_id are required"})
		return
	}

	transaction, pkg, err := h.tokenService.PurchaseTokens(userID.String(), req.Amount, req.PackageID)
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
		"transaction": transaction,
		"package":     pkg,
		"price_usd":   pkg.PriceUSD,
		"balance":     balance,
	})
}

// CheckBalance reports whether the user can afford the required amount
// POST /api/tokens/check
func (h *TokenHandler) CheckBalance(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		respondError(c, services.ErrAuthRequired)
		return
	}

	var req struct {
		RequiredAmount int `json:"required_amount" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "required_amount is required"})
		return
	}

	sufficient, err := h.tokenService.CheckBalance(userID.String(), req.RequiredAmount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sufficient": sufficient,
	})
}
