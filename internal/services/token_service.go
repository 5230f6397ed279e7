package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bwibber-backend/internal/models"
)

// TokenService is the ledger authority: balances are always derived from
// the append-only transaction log, never from a stored counter, and `use`
// rows are gated on the current balance inside one database transaction.
type TokenService struct {
	db *gorm.DB
}

// NewTokenService creates a new TokenService
func NewTokenService(db *gorm.DB) *TokenService {
	return &TokenService{db: db}
}

// GetBalance returns the current balance for a user
func (s *TokenService) GetBalance(userID string) (int, error) {
	id, err := parseID(userID)
	if err != nil {
		return 0, err
	}
	return s.balance(s.db, id)
}

// CheckBalance reports whether the user holds at least required tokens
func (s *TokenService) CheckBalance(userID string, required int) (bool, error) {
	if required < 0 {
		return false, ErrInvalidAmount
	}
	balance, err := s.GetBalance(userID)
	if err != nil {
		return false, err
	}
	return balance >= required, nil
}

// RecordTransaction appends one ledger entry. Amount must be positive;
// the stored amount is signed by kind (use rows are negative). A use that
// would overdraw the balance fails with ErrInsufficientBalance and writes
// nothing.
func (s *TokenService) RecordTransaction(userID string, amount int, kind models.TransactionKind, description string) (*models.TokenTransaction, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	return s.record(s.db, id, amount, kind, nil, description)
}

// PurchaseTokens records a simulated purchase of the named package. No
// payment gateway is contacted; this is a placeholder flow.
func (s *TokenService) PurchaseTokens(userID string, amount int, packageID string) (*models.TokenTransaction, *models.TokenPackage, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, nil, err
	}
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	var pkg models.TokenPackage
	if err := s.db.First(&pkg, "id = ?", packageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, validationErr("package_id", "unknown token package")
		}
		return nil, nil, fmt.Errorf("failed to load token package: %w", err)
	}

	// The credited amount must match the package, since revenue is booked
	// one list price per purchase row.
	if amount != pkg.Tokens {
		return nil, nil, validationErr("amount", fmt.Sprintf("the %s package contains %d tokens", pkg.ID, pkg.Tokens))
	}

	description := fmt.Sprintf("Purchased %d tokens (%s package)", amount, pkg.ID)
	tx, err := s.record(s.db, id, amount, models.TransactionPurchase, &pkg.ID, description)
	if err != nil {
		return nil, nil, err
	}
	return tx, &pkg, nil
}

// ListTransactions returns the most recent ledger entries for a user
func (s *TokenService) ListTransactions(userID string, limit int) ([]models.TokenTransaction, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var txs []models.TokenTransaction
	if err := s.db.Where("user_id = ?", id).
		Order("created_at DESC").Limit(limit).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// Costs returns the current token cost settings
func (s *TokenService) Costs() (*models.TokenCosts, error) {
	return tokenCosts(s.db)
}

func tokenCosts(db *gorm.DB) (*models.TokenCosts, error) {
	var costs models.TokenCosts
	if err := db.Where(models.TokenCosts{ID: 1}).
		Attrs(models.TokenCosts{BotCreation: 50, PostGeneration: 10, TemplateCreation: 25}).
		FirstOrCreate(&costs).Error; err != nil {
		return nil, fmt.Errorf("failed to load token costs: %w", err)
	}
	return &costs, nil
}

// lockUserLedger takes a row lock on the user's row for the rest of the
// transaction. Concurrent spends for one user must serialize: under read
// committed, two spends could otherwise both read the same balance and
// overdraw. The no-op update form works on postgres and sqlite alike.
func lockUserLedger(tx *gorm.DB, userID uuid.UUID) error {
	if err := tx.Exec("UPDATE users SET updated_at = updated_at WHERE id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to lock user ledger: %w", err)
	}
	return nil
}

// balance sums the signed ledger amounts for one user
func (s *TokenService) balance(db *gorm.DB, userID uuid.UUID) (int, error) {
	var balance int64
	err := db.Model(&models.TokenTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}
	return int(balance), nil
}

// record validates and appends one entry inside a database transaction so
// the balance check and the insert are atomic with respect to concurrent
// writers.
func (s *TokenService) record(db *gorm.DB, userID uuid.UUID, amount int, kind models.TransactionKind, packageID *string, description string) (*models.TokenTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !models.ValidTransactionKind(kind) {
		return nil, validationErr("type", "unknown transaction kind")
	}

	signed := amount
	if kind == models.TransactionUse {
		signed = -amount
	}

	entry := &models.TokenTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      signed,
		Type:        kind,
		PackageID:   packageID,
		Description: description,
		CreatedAt:   time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if kind == models.TransactionUse {
			if err := lockUserLedger(tx, userID); err != nil {
				return err
			}
			balance, err := s.balance(tx, userID)
			if err != nil {
				return err
			}
			if balance < amount {
				return ErrInsufficientBalance
			}
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// spend charges amount tokens within an existing transaction handle. Used
// by flows that must keep the charge and its side effect (bot row, post
// row) atomic.
func (s *TokenService) spend(tx *gorm.DB, userID uuid.UUID, amount int, description string) (*models.TokenTransaction, error) {
	// Zero-cost actions write no ledger entry.
	if amount == 0 {
		return nil, nil
	}

	if err := lockUserLedger(tx, userID); err != nil {
		return nil, err
	}
	balance, err := s.balance(tx, userID)
	if err != nil {
		return nil, err
	}
	if balance < amount {
		return nil, ErrInsufficientBalance
	}

	entry := &models.TokenTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      -amount,
		Type:        models.TransactionUse,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to record token use: %w", err)
	}
	return entry, nil
}
