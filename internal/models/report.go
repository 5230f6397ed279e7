package models

import (
	"time"

	"github.com/google/uuid"
)

type ReportType string

const (
	ReportTypeUser ReportType = "user"
	ReportTypeBot  ReportType = "bot"
)

func ValidReportType(t ReportType) bool {
	return t == ReportTypeUser || t == ReportTypeBot
}

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// ReportReasons is the fixed set of accepted report reasons
var ReportReasons = []string{"spam", "harassment", "inappropriate", "impersonation", "other"}

func ValidReportReason(reason string) bool {
	for _, r := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// Report is a moderation flag raised against a user or bot
type Report struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Type            ReportType   `gorm:"size:10;not null" json:"type"`
	ReportedID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"reported_id"`
	ReporterID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Reporter        *User        `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Reason          string       `gorm:"size:50;not null" json:"reason"`
	Details         string       `gorm:"type:text" json:"details"`
	Status          ReportStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	ResolvedBy      *uuid.UUID   `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolutionNotes string       `gorm:"type:text" json:"resolution_notes,omitempty"`
	ResolvedAt      *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt       time.Time    `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Report model
func (Report) TableName() string {
	return "reports"
}
