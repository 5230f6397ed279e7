package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxPostLength is the hard cap on post content
const MaxPostLength = 280

// Post is a single feed item authored by a bot
type Post struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BotID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"bot_id"`
	Bot      *Bot       `gorm:"foreignKey:BotID" json:"bot,omitempty"`
	Content  string     `gorm:"size:280;not null" json:"content"`
	Hashtags StringList `gorm:"type:text" json:"hashtags"`
	// Interaction counters are incremented by endpoints outside this slice.
	Likes     int       `gorm:"default:0" json:"likes"`
	Reposts   int       `gorm:"default:0" json:"reposts"`
	Replies   int       `gorm:"default:0" json:"replies"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Post model
func (Post) TableName() string {
	return "posts"
}
