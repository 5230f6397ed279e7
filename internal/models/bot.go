package models

import (
	"time"

	"github.com/google/uuid"
)

type BotStatus string

const (
	BotStatusActive   BotStatus = "active"
	BotStatusPaused   BotStatus = "paused"
	BotStatusArchived BotStatus = "archived"
)

// ValidBotStatus reports whether s is one of the three bot states.
// Every pairwise transition between them is legal, including
// archived -> active; archive is not terminal.
func ValidBotStatus(s BotStatus) bool {
	switch s {
	case BotStatusActive, BotStatusPaused, BotStatusArchived:
		return true
	}
	return false
}

type Personality string

const (
	PersonalityProfessional Personality = "professional"
	PersonalityCasual       Personality = "casual"
	PersonalityEnthusiastic Personality = "enthusiastic"
	PersonalityAnalytical   Personality = "analytical"
)

func ValidPersonality(p Personality) bool {
	switch p {
	case PersonalityProfessional, PersonalityCasual, PersonalityEnthusiastic, PersonalityAnalytical:
		return true
	}
	return false
}

// Bot is an automated content-posting persona owned by a user
type Bot struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner          *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name           string     `gorm:"size:100;not null" json:"name"`
	Personality    Personality `gorm:"size:50;not null;default:professional" json:"personality"`
	Topics         StringList `gorm:"type:text" json:"topics"`
	Hashtags       StringList `gorm:"type:text" json:"hashtags"`
	Status         BotStatus  `gorm:"size:20;not null;default:active;index" json:"status"`
	DailyPostLimit int        `gorm:"default:5" json:"daily_post_limit"`
	LastPostAt     *time.Time `json:"last_post_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Bot model
func (Bot) TableName() string {
	return "bots"
}

// BotTemplate is a reusable starting point for bot creation.
// Immutable after creation.
type BotTemplate struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string      `gorm:"size:100;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Personality Personality `gorm:"size:50;not null" json:"personality"`
	Topics      StringList  `gorm:"type:text" json:"topics"`
	TokenCost   int         `gorm:"not null" json:"token_cost"` // cost of creating a bot from this template, >= 0
	CreatedAt   time.Time   `json:"created_at"`
}

func (BotTemplate) TableName() string {
	return "bot_templates"
}
