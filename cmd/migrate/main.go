package main

import (
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bwibber-backend/internal/config"
	"bwibber-backend/internal/database"
	"bwibber-backend/internal/models"
)

// Runs migrations and seed data against the configured database. If
// ADMIN_EMAIL and ADMIN_PASSWORD are set, a bootstrap admin account is
// created (or the existing account is promoted).
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := database.GetDB()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed token costs and packages
	if err := database.Seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Bootstrap admin account if requested
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		if err := bootstrapAdmin(db, adminEmail, adminPassword); err != nil {
			log.Fatalf("Failed to bootstrap admin: %v", err)
		}
	}

	log.Println("Migration completed successfully")
}

func bootstrapAdmin(db *gorm.DB, email, password string) error {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.IsAdmin {
			log.Printf("Admin account already exists: %s", email)
			return nil
		}
		log.Printf("Promoting existing account to admin: %s", email)
		return db.Model(&user).Update("is_admin", true).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Administrator",
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Admin account created: %s (ID: %s)", email, admin.ID)
	return nil
}
