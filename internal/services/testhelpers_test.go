package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bwibber-backend/internal/database"
	"bwibber-backend/internal/models"
)

// setupTestDB opens a fresh in-memory database named after the test so
// parallel tests never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("failed to seed database: %v", err)
	}

	return db
}

// createTestUser inserts a user with no ledger history
func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "x",
		Name:         "Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// grantTokens credits amount tokens to the user's ledger
func grantTokens(t *testing.T, db *gorm.DB, userID uuid.UUID, amount int) {
	tx := models.TokenTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Type:        models.TransactionPurchase,
		Description: "test grant",
	}
	if err := db.Create(&tx).Error; err != nil {
		t.Fatalf("failed to grant tokens: %v", err)
	}
}
