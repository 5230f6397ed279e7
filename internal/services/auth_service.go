package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bwibber-backend/internal/models"
)

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// AuthService handles account registration and sign-in
type AuthService struct {
	db *gorm.DB
	// initialGrant is credited to the ledger at sign-up; zero disables it.
	initialGrant int
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB, initialGrant int) *AuthService {
	return &AuthService{db: db, initialGrant: initialGrant}
}

// SignUp registers a new account and credits the welcome token grant
func (s *AuthService) SignUp(email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if email == "" || password == "" || name == "" {
		return nil, validationErr("", "all fields are required")
	}
	if !emailRegex.MatchString(email) {
		return nil, validationErr("email", "please enter a valid email address")
	}
	if len(password) < 6 {
		return nil, validationErr("password", "password must be at least 6 characters long")
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, validationErr("email", "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if s.initialGrant > 0 {
			grant := models.TokenTransaction{
				ID:          uuid.New(),
				UserID:      user.ID,
				Amount:      s.initialGrant,
				Type:        models.TransactionPurchase,
				Description: fmt.Sprintf("Welcome bonus: %d tokens", s.initialGrant),
				CreatedAt:   time.Now(),
			}
			if err := tx.Create(&grant).Error; err != nil {
				return fmt.Errorf("failed to credit welcome bonus: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("New user created: %s (ID: %s)", user.Email, user.ID)
	return &user, nil
}

// SignIn verifies credentials and returns the account. Failures are
// reported with a single generic error so the response does not reveal
// whether the email exists.
func (s *AuthService) SignIn(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, validationErr("", "email and password are required")
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// UpdateName updates the display name on a profile
func (s *AuthService) UpdateName(userID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationErr("name", "name is required")
	}

	result := s.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"name": name, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update name: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
