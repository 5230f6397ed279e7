package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bwibber-backend/internal/models"
)

func TestIsAdmin(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db)
	user := createTestUser(t, db)

	if service.IsAdmin(user.ID) {
		t.Error("fresh users must not be admins")
	}

	db.Model(user).Update("is_admin", true)
	if !service.IsAdmin(user.ID) {
		t.Error("expected admin after flag update")
	}
}

func TestPromoteToAdmin(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db)
	admin := createTestUser(t, db)
	db.Model(admin).Update("is_admin", true)
	user := createTestUser(t, db)

	promoted, err := service.PromoteToAdmin(user.ID.String(), admin.ID)
	if err != nil {
		t.Fatalf("PromoteToAdmin failed: %v", err)
	}
	if !promoted.IsAdmin {
		t.Error("promoted user should carry the admin flag")
	}

	// Promoting twice is rejected.
	_, err = service.PromoteToAdmin(user.ID.String(), admin.ID)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected validation error on double promotion, got %v", err)
	}

	// The promotion is audited.
	var logCount int64
	db.Model(&models.AdminLog{}).Where("action = ?", "PROMOTE_USER").Count(&logCount)
	if logCount != 1 {
		t.Errorf("expected 1 audit entry, got %d", logCount)
	}
}

func TestUpdateTokenCosts(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db)
	admin := createTestUser(t, db)

	costs, err := service.UpdateTokenCosts(80, 20, 40, admin.ID)
	if err != nil {
		t.Fatalf("UpdateTokenCosts failed: %v", err)
	}
	if costs.BotCreation != 80 || costs.PostGeneration != 20 || costs.TemplateCreation != 40 {
		t.Errorf("costs not applied: %+v", costs)
	}

	// The change is visible to the spending path.
	current, err := NewTokenService(db).Costs()
	if err != nil {
		t.Fatalf("Costs failed: %v", err)
	}
	if current.BotCreation != 80 {
		t.Errorf("expected updated bot creation cost 80, got %d", current.BotCreation)
	}

	// Negative values are rejected; zero is allowed.
	var vErr *ValidationError
	if _, err := service.UpdateTokenCosts(-1, 20, 40, admin.ID); !errors.As(err, &vErr) {
		t.Errorf("expected validation error for negative cost, got %v", err)
	}
	if _, err := service.UpdateTokenCosts(0, 0, 0, admin.ID); err != nil {
		t.Errorf("zero costs should be accepted, got %v", err)
	}
}

func TestGetSystemStats(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db)
	tokens := NewTokenService(db)
	bots := NewBotService(db, tokens)
	reports := NewReportService(db, service)

	user := createTestUser(t, db)
	other := createTestUser(t, db)
	grantTokens(t, db, user.ID, 100)

	bot, err := bots.CreateBot(user.ID, BotConfig{Name: "StatBot", Topics: []string{"stats"}})
	if err != nil {
		t.Fatalf("CreateBot failed: %v", err)
	}
	if err := bots.UpdateStatus(bot.ID.String(), user.ID, models.BotStatusPaused); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	if _, _, err := tokens.PurchaseTokens(other.ID.String(), 500, "pro"); err != nil {
		t.Fatalf("PurchaseTokens failed: %v", err)
	}
	if _, err := reports.SubmitReport(other.ID, models.ReportTypeBot, bot.ID.String(), "spam", ""); err != nil {
		t.Fatalf("SubmitReport failed: %v", err)
	}

	stats, err := service.GetSystemStats()
	if err != nil {
		t.Fatalf("GetSystemStats failed: %v", err)
	}

	if stats.TotalUsers != 2 {
		t.Errorf("expected 2 users, got %d", stats.TotalUsers)
	}
	if stats.TotalBots != 1 {
		t.Errorf("expected 1 bot, got %d", stats.TotalBots)
	}
	if stats.ActiveBots != 0 {
		t.Errorf("expected 0 active bots after pause, got %d", stats.ActiveBots)
	}
	if stats.PendingReports != 1 {
		t.Errorf("expected 1 pending report, got %d", stats.PendingReports)
	}
	// 100 grant - 50 creation + 500 purchase
	if stats.TotalTokens != 550 {
		t.Errorf("expected 550 tokens outstanding, got %d", stats.TotalTokens)
	}
	if !stats.TotalRevenue.Equal(decimal.NewFromFloat(19.99)) {
		t.Errorf("expected revenue 19.99 from one pro purchase, got %s", stats.TotalRevenue)
	}
}

func TestGetAllUsersSearch(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db)

	alice := models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: "x", Name: "Alice"}
	bob := models.User{ID: uuid.New(), Email: "bob@example.com", PasswordHash: "x", Name: "Bob"}
	db.Create(&alice)
	db.Create(&bob)

	users, total, err := service.GetAllUsers(50, 0, "alice")
	if err != nil {
		t.Fatalf("GetAllUsers failed: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].Email != "alice@example.com" {
		t.Errorf("search for alice returned %d users (total %d)", len(users), total)
	}

	_, total, _ = service.GetAllUsers(50, 0, "")
	if total != 2 {
		t.Errorf("expected 2 users without search, got %d", total)
	}
}
