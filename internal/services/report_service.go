package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bwibber-backend/internal/models"
)

// ReportService handles moderation reports and their admin resolution
type ReportService struct {
	db    *gorm.DB
	admin *AdminService
}

// NewReportService creates a new ReportService
func NewReportService(db *gorm.DB, admin *AdminService) *ReportService {
	return &ReportService{db: db, admin: admin}
}

// SubmitReport files a pending report against a user or bot. The subject
// identifier is format-checked before any persistence attempt and the
// subject must exist.
func (s *ReportService) SubmitReport(reporterID uuid.UUID, reportType models.ReportType, reportedID, reason, details string) (*models.Report, error) {
	if !models.ValidReportType(reportType) {
		return nil, validationErr("type", "report type must be user or bot")
	}
	subjectID, err := parseID(reportedID)
	if err != nil {
		return nil, err
	}
	if !models.ValidReportReason(reason) {
		return nil, validationErr("reason", "unknown report reason")
	}

	exists, err := s.subjectExists(reportType, subjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	report := &models.Report{
		ID:         uuid.New(),
		Type:       reportType,
		ReportedID: subjectID,
		ReporterID: reporterID,
		Reason:     reason,
		Details:    details,
		Status:     models.ReportStatusPending,
	}

	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	log.Printf("Report submitted: %s %s reported by %s (%s)", reportType, subjectID, reporterID, reason)
	return report, nil
}

// ListReports returns reports, optionally filtered by status, newest first
func (s *ReportService) ListReports(status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := s.db.Preload("Reporter").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var reports []models.Report
	if err := query.Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// ResolveReport closes a pending report as resolved or dismissed. Only
// pending reports may be resolved; a second resolution attempt fails.
func (s *ReportService) ResolveReport(reportID string, adminID uuid.UUID, status models.ReportStatus, notes string) (*models.Report, error) {
	id, err := parseID(reportID)
	if err != nil {
		return nil, err
	}
	if status != models.ReportStatusResolved && status != models.ReportStatusDismissed {
		return nil, validationErr("status", "status must be resolved or dismissed")
	}

	var report models.Report
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&report).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}
		if report.Status != models.ReportStatusPending {
			return validationErr("status", "report has already been resolved")
		}

		now := time.Now()
		report.Status = status
		report.ResolvedBy = &adminID
		report.ResolutionNotes = notes
		report.ResolvedAt = &now

		return tx.Save(&report).Error
	})
	if err != nil {
		return nil, err
	}

	s.admin.LogAdminAction(adminID, "RESOLVE_REPORT", "REPORT", &report.ID, models.JSONB{
		"status": string(status),
		"notes":  notes,
	})

	log.Printf("Report %s %s by admin %s", report.ID, status, adminID)
	return &report, nil
}

func (s *ReportService) subjectExists(reportType models.ReportType, subjectID uuid.UUID) (bool, error) {
	var count int64
	var err error
	switch reportType {
	case models.ReportTypeUser:
		err = s.db.Model(&models.User{}).Where("id = ?", subjectID).Count(&count).Error
	case models.ReportTypeBot:
		err = s.db.Model(&models.Bot{}).Where("id = ?", subjectID).Count(&count).Error
	}
	if err != nil {
		return false, fmt.Errorf("failed to check report subject: %w", err)
	}
	return count > 0, nil
}
