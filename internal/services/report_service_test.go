package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"bwibber-backend/internal/models"
)

func TestSubmitReportRejectsMalformedSubject(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db, NewAdminService(db))
	reporter := createTestUser(t, db)

	for _, id := range []string{"", "abc", "not-a-uuid"} {
		_, err := service.SubmitReport(reporter.ID, models.ReportTypeUser, id, "spam", "")
		if !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("subject %q: expected ErrInvalidIdentifier, got %v", id, err)
		}
	}

	var count int64
	db.Model(&models.Report{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected reports must not be stored, found %d", count)
	}
}

func TestSubmitReportRejectsUnknownReason(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db, NewAdminService(db))
	reporter := createTestUser(t, db)
	subject := createTestUser(t, db)

	_, err := service.SubmitReport(reporter.ID, models.ReportTypeUser, subject.ID.String(), "being annoying", "")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for unknown reason, got %v", err)
	}
	if vErr.Field != "reason" {
		t.Errorf("expected reason field, got %q", vErr.Field)
	}
}

func TestSubmitReportRequiresExistingSubject(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db, NewAdminService(db))
	reporter := createTestUser(t, db)

	_, err := service.SubmitReport(reporter.ID, models.ReportTypeBot, uuid.NewString(), "spam", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing subject, got %v", err)
	}
}

func TestReportResolutionFlow(t *testing.T) {
	db := setupTestDB(t)
	admin := NewAdminService(db)
	service := NewReportService(db, admin)
	reporter := createTestUser(t, db)
	subject := createTestUser(t, db)
	moderator := createTestUser(t, db)
	db.Model(moderator).Update("is_admin", true)

	report, err := service.SubmitReport(reporter.ID, models.ReportTypeUser, subject.ID.String(), "harassment", "repeated replies")
	if err != nil {
		t.Fatalf("SubmitReport failed: %v", err)
	}
	if report.Status != models.ReportStatusPending {
		t.Fatalf("new reports must be pending, got %s", report.Status)
	}

	resolved, err := service.ResolveReport(report.ID.String(), moderator.ID, models.ReportStatusResolved, "warned the user")
	if err != nil {
		t.Fatalf("ResolveReport failed: %v", err)
	}
	if resolved.Status != models.ReportStatusResolved {
		t.Errorf("expected resolved status, got %s", resolved.Status)
	}
	if resolved.ResolvedBy == nil || *resolved.ResolvedBy != moderator.ID {
		t.Error("resolved_by was not recorded")
	}
	if resolved.ResolvedAt == nil {
		t.Error("resolved_at was not recorded")
	}

	// A second resolution attempt is rejected.
	_, err = service.ResolveReport(report.ID.String(), moderator.ID, models.ReportStatusDismissed, "changed my mind")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error on re-resolution, got %v", err)
	}

	// The stored row kept its first resolution.
	var stored models.Report
	db.First(&stored, "id = ?", report.ID)
	if stored.Status != models.ReportStatusResolved {
		t.Errorf("re-resolution must not change the stored status, got %s", stored.Status)
	}

	// The resolution left an audit trail.
	var logCount int64
	db.Model(&models.AdminLog{}).Where("action = ?", "RESOLVE_REPORT").Count(&logCount)
	if logCount != 1 {
		t.Errorf("expected 1 audit log entry, got %d", logCount)
	}
}

func TestResolveReportRejectsPendingTarget(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db, NewAdminService(db))
	reporter := createTestUser(t, db)
	subject := createTestUser(t, db)

	report, err := service.SubmitReport(reporter.ID, models.ReportTypeUser, subject.ID.String(), "spam", "")
	if err != nil {
		t.Fatalf("SubmitReport failed: %v", err)
	}

	// Reports can only be closed as resolved or dismissed.
	_, err = service.ResolveReport(report.ID.String(), uuid.New(), models.ReportStatusPending, "")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected validation error for pending target status, got %v", err)
	}
}

func TestListReportsFilterByStatus(t *testing.T) {
	db := setupTestDB(t)
	admin := NewAdminService(db)
	service := NewReportService(db, admin)
	reporter := createTestUser(t, db)
	subject := createTestUser(t, db)
	moderator := createTestUser(t, db)

	first, _ := service.SubmitReport(reporter.ID, models.ReportTypeUser, subject.ID.String(), "spam", "")
	service.SubmitReport(reporter.ID, models.ReportTypeUser, subject.ID.String(), "impersonation", "")
	if _, err := service.ResolveReport(first.ID.String(), moderator.ID, models.ReportStatusDismissed, ""); err != nil {
		t.Fatalf("ResolveReport failed: %v", err)
	}

	pending, err := service.ListReports(models.ReportStatusPending, 50, 0)
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected 1 pending report, got %d", len(pending))
	}

	all, _ := service.ListReports("", 50, 0)
	if len(all) != 2 {
		t.Errorf("expected 2 reports without filter, got %d", len(all))
	}
}
