package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bwibber-backend/internal/models"
)

// SystemStats is the admin dashboard snapshot
type SystemStats struct {
	TotalUsers     int64           `json:"total_users"`
	TotalBots      int64           `json:"total_bots"`
	TotalTokens    int64           `json:"total_tokens"`
	ActiveUsers    int64           `json:"active_users"`
	ActiveBots     int64           `json:"active_bots"`
	PendingReports int64           `json:"pending_reports"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

// AdminService handles admin checks, platform stats, and audit logging
type AdminService struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewAdminService creates a new AdminService
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// IsAdmin checks if a user is an admin
func (s *AdminService) IsAdmin(userID uuid.UUID) bool {
	var user models.User
	result := s.db.Select("is_admin").Where("id = ?", userID).First(&user)
	return result.Error == nil && user.IsAdmin
}

// PromoteToAdmin grants admin rights to a user
func (s *AdminService) PromoteToAdmin(userID string, promotedBy uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, ErrNotFound
	}
	if user.IsAdmin {
		return nil, validationErr("user_id", "user is already an admin")
	}

	if err := s.db.Model(&user).Updates(map[string]interface{}{"is_admin": true, "updated_at": time.Now()}).Error; err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	user.IsAdmin = true

	s.LogAdminAction(promotedBy, "PROMOTE_USER", "USER", &user.ID, nil)

	log.Printf("User %s promoted to admin by %s", user.ID, promotedBy)
	return &user, nil
}

// GetSystemStats computes the current platform-wide counters
func (s *AdminService) GetSystemStats() (*SystemStats, error) {
	stats := &SystemStats{TotalRevenue: decimal.Zero}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	s.db.Model(&models.Bot{}).Count(&stats.TotalBots)
	s.db.Model(&models.Bot{}).Where("status = ?", models.BotStatusActive).Count(&stats.ActiveBots)

	// Users whose row changed in the last 30 days count as active.
	activeSince := time.Now().AddDate(0, 0, -30)
	s.db.Model(&models.User{}).Where("updated_at >= ?", activeSince).Count(&stats.ActiveUsers)

	s.db.Model(&models.TokenTransaction{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.TotalTokens)

	s.db.Model(&models.Report{}).
		Where("status = ?", models.ReportStatusPending).Count(&stats.PendingReports)

	// Revenue from simulated purchases: one list price per purchase row
	// that names a package.
	type revenueRow struct {
		PackageID string
		Purchases int64
	}
	var rows []revenueRow
	s.db.Model(&models.TokenTransaction{}).
		Select("package_id, COUNT(*) as purchases").
		Where("type = ? AND package_id IS NOT NULL", models.TransactionPurchase).
		Group("package_id").Scan(&rows)

	for _, row := range rows {
		var pkg models.TokenPackage
		if err := s.db.First(&pkg, "id = ?", row.PackageID).Error; err != nil {
			continue
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(pkg.PriceUSD.Mul(decimal.NewFromInt(row.Purchases)))
	}

	return stats, nil
}

// GetTokenCosts returns the current token cost settings
func (s *AdminService) GetTokenCosts() (*models.TokenCosts, error) {
	return tokenCosts(s.db)
}

// UpdateTokenCosts replaces the token cost settings. Costs must not be
// negative; zero disables charging for that action.
func (s *AdminService) UpdateTokenCosts(botCreation, postGeneration, templateCreation int, adminID uuid.UUID) (*models.TokenCosts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if botCreation < 0 || postGeneration < 0 || templateCreation < 0 {
		return nil, validationErr("costs", "token costs must not be negative")
	}

	costs, err := tokenCosts(s.db)
	if err != nil {
		return nil, err
	}

	costs.BotCreation = botCreation
	costs.PostGeneration = postGeneration
	costs.TemplateCreation = templateCreation
	if err := s.db.Save(costs).Error; err != nil {
		return nil, fmt.Errorf("failed to update token costs: %w", err)
	}

	s.LogAdminAction(adminID, "UPDATE_TOKEN_COSTS", "TOKEN_COSTS", nil, models.JSONB{
		"bot_creation":      botCreation,
		"post_generation":   postGeneration,
		"template_creation": templateCreation,
	})

	return costs, nil
}

// GetAllUsers returns users with optional email/name search
func (s *AdminService) GetAllUsers(limit, offset int, search string) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.db.Model(&models.User{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("email LIKE ? OR name LIKE ?", pattern, pattern)
	}

	query.Count(&total)
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// LogAdminAction logs an admin action
func (s *AdminService) LogAdminAction(adminID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, details models.JSONB) error {
	adminLog := models.AdminLog{
		AdminID:      adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}

	if err := s.db.Create(&adminLog).Error; err != nil {
		log.Printf("Warning: failed to record admin log (%s): %v", action, err)
		return err
	}
	return nil
}

// GetAdminLogs returns admin activity logs, newest first
func (s *AdminService) GetAdminLogs(limit, offset int) ([]models.AdminLog, error) {
	var logs []models.AdminLog
	if err := s.db.Preload("Admin").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
