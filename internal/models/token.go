package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionPurchase TransactionKind = "purchase"
	TransactionUse      TransactionKind = "use"
	TransactionRefund   TransactionKind = "refund"
)

func ValidTransactionKind(k TransactionKind) bool {
	switch k {
	case TransactionPurchase, TransactionUse, TransactionRefund:
		return true
	}
	return false
}

// TokenTransaction is one append-only ledger entry. Amount is signed:
// purchase and refund rows are positive, use rows negative. The balance
// is always SUM(amount), never a stored counter.
type TokenTransaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount      int             `gorm:"not null" json:"amount"`
	Type        TransactionKind `gorm:"size:20;not null;index" json:"type"`
	PackageID   *string         `gorm:"size:50" json:"package_id,omitempty"` // set on purchases only
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for TokenTransaction model
func (TokenTransaction) TableName() string {
	return "token_transactions"
}

// TokenPackage is a purchasable token bundle. Payment is simulated; the
// list price is recorded but no gateway is contacted.
type TokenPackage struct {
	ID          string          `gorm:"size:50;primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Tokens      int             `gorm:"not null" json:"tokens"`
	PriceUSD    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_usd"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (TokenPackage) TableName() string {
	return "token_packages"
}

// TokenCosts is the singleton pricing row for bot actions
type TokenCosts struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	BotCreation      int       `gorm:"not null;default:50" json:"bot_creation"`
	PostGeneration   int       `gorm:"not null;default:10" json:"post_generation"`
	TemplateCreation int       `gorm:"not null;default:25" json:"template_creation"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (TokenCosts) TableName() string {
	return "token_costs"
}
