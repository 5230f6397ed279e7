package database

import (
	"fmt"
	"log"

	"bwibber-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate runs automatic migrations for all models against db
func Migrate(db *gorm.DB) error {
	// Core account and bot models first
	coreModels := []interface{}{
		&models.User{},
		&models.Bot{},
		&models.BotTemplate{},
		&models.Post{},
	}

	for _, model := range coreModels {
		if err := db.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Token ledger models
	tokenModels := []interface{}{
		&models.TokenTransaction{},
		&models.TokenPackage{},
		&models.TokenCosts{},
	}

	for _, model := range tokenModels {
		if err := db.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Moderation and admin models
	adminModels := []interface{}{
		&models.Report{},
		&models.AdminLog{},
	}

	for _, model := range adminModels {
		if err := db.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// Seed inserts the token cost singleton and the purchasable packages if
// they are not present yet. Safe to run on every start.
func Seed(db *gorm.DB) error {
	var costs models.TokenCosts
	if err := db.Where(models.TokenCosts{ID: 1}).
		Attrs(models.TokenCosts{BotCreation: 50, PostGeneration: 10, TemplateCreation: 25}).
		FirstOrCreate(&costs).Error; err != nil {
		return fmt.Errorf("failed to seed token costs: %w", err)
	}

	packages := []models.TokenPackage{
		{ID: "basic", Name: "Basic Pack", Tokens: 100, PriceUSD: decimal.NewFromFloat(4.99), Description: "Perfect for getting started"},
		{ID: "pro", Name: "Pro Pack", Tokens: 500, PriceUSD: decimal.NewFromFloat(19.99), Description: "Most popular choice"},
		{ID: "enterprise", Name: "Enterprise Pack", Tokens: 2000, PriceUSD: decimal.NewFromFloat(59.99), Description: "For power users"},
	}
	for _, pkg := range packages {
		var existing models.TokenPackage
		if err := db.Where(models.TokenPackage{ID: pkg.ID}).
			Attrs(pkg).
			FirstOrCreate(&existing).Error; err != nil {
			return fmt.Errorf("failed to seed token package %s: %w", pkg.ID, err)
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
