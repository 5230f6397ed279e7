package services

import (
	"errors"
	"sync"
	"testing"

	"bwibber-backend/internal/models"
)

func TestPurchaseTokensCreditsExactAmount(t *testing.T) {
	db := setupTestDB(t)
	service := NewTokenService(db)
	user := createTestUser(t, db)

	tx, pkg, err := service.PurchaseTokens(user.ID.String(), 100, "basic")
	if err != nil {
		t.Fatalf("PurchaseTokens failed: %v", err)
	}
	if tx.Amount != 100 {
		t.Errorf("expected transaction amount 100, got %d", tx.Amount)
	}
	if pkg.ID != "basic" {
		t.Errorf("expected basic package, got %s", pkg.ID)
	}

	balance, err := service.GetBalance(user.ID.String())
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance != 100 {
		t.Errorf("expected balance 100 after purchase, got %d", balance)
	}

	// A second purchase adds exactly the purchased amount again.
	if _, _, err := service.PurchaseTokens(user.ID.String(), 500, "pro"); err != nil {
		t.Fatalf("second purchase failed: %v", err)
	}
	balance, _ = service.GetBalance(user.ID.String())
	if balance != 600 {
		t.Errorf("expected balance 600 after two purchases, got %d", balance)
	}
}

func TestPurchaseTokensRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	service := NewTokenService(db)
	user := createTestUser(t, db)

	for _, amount := range []int{0, -50} {
		if _, _, err := service.PurchaseTokens(user.ID.String(), amount, "basic"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	// No ledger rows may exist after rejected purchases.
	var count int64
	db.Model(&models.TokenTransaction{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected empty ledger after rejected purchases, found %d rows", count)
	}
}

func TestPurchaseTokensUnknownPackage(t *testing.T) {
	db := setupTestDB(t)
	service := NewTokenService(db)
	user := createTestUser(t, db)

	_, _, err := service.PurchaseTokens(user.ID.String(), 100, "mega")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for unknown package, got %v", err)
	}
	if vErr.Field != "package_id" {
		t.Errorf("expected package_id field, got %q", vErr.Field)
	}
}

func TestPurchaseTokensAmountMustMatchPackage(t *testing.T) {
	db := setupTestDB(t)
	service := NewTokenService(db)
	user := createTestUser(t, db)

	// A 1-token purchase against the 500-token pro package would still
	// book the full list price as revenue, so the mismatch is rejected.
	_, _, err := service.PurchaseTokens(user.ID.String(), 1, "pro")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for amount/package mismatch, got %v", err)
	}
	if vErr.Field != "amount" {
		t.Errorf("expected amount field, got %q", vErr.Field)
	}

	var count int64
	db.Model(&models.TokenTransaction{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("rejected purchase must not write a ledger row, found %d", count)
	}
}

func TestConcurrentSpendsNeverOverdraw(t *testing.T) {
	db := setupTestDB(t)
	service := NewTokenService(db)
	user := createTestUser(t, db)
	grantTokens(t, db, user.ID, 30)

	// Ten rival spends of 10 against a balance of 30: at most three may
	// land, and the balance must never go negative.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			service.RecordTransaction(user.ID.String(), 10, models.TransactionUse, "rival spend")
		}()
	}
	wg.Wait()

	balance, err := service.GetBalance(user.ID.String())
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance < 0 {
		t.Fatalf("ledger overdrawn: balance %d", balance)
	}

	var spends int64
	db.Model(&models.TokenTransaction{}).
		Where("user_id = ? AND type = ?", user.ID, models.TransactionUse).Count(&spends)
	if spends > 3 {
		t.Errorf("expected at most 3 successful spends, got %d", spends)
	}
	if want := 30 - int(spends)*10; balance != want {
		t.Errorf("balance %d does not match %d recorded spends", balance, spends)
	}
}

func TestRecordTransactionUseGatedOnBalance(t *testing.T) {
	db := setupTestDB(t)
	service := NewTokenService(db)
	user := createTestUser(t, db)
	grantTokens(t, db, user.ID, 30)

	// Spending more than the balance fails and writes nothing.
	if _, err := service.RecordTransaction(user.ID.String(), 50, models.TransactionUse, "big spend"); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	balance, _ := service.GetBalance(user.ID.String())
	if balance != 30 {
		t.Errorf("failed spend must not change balance: expected 30, got %d", balance)
	}

	// Spending within the balance stores a negative row.
	tx, err := service.RecordTransaction(user.ID.String(), 10, models.TransactionUse, "small spend")
	if err != nil {
		t.Fatalf("RecordTransaction failed: %v", err)
	}
	if tx.Amount != -10 {
		t.Errorf("use rows must be stored negative, got %d", tx.Amount)
	}
	balance, _ = service.GetBalance(user.ID.String())
	if balance != 20 {
		t.Errorf("expected balance 20 after spend, got %d", balance)
	}
}

func TestCheckBalance(t *testing.T) {
	db := setupTestDB(t)
	service := NewTokenService(db)
	user := createTestUser(t, db)
	grantTokens(t, db, user.ID, 50)

	sufficient, err := service.CheckBalance(user.ID.String(), 50)
	if err != nil {
		t.Fatalf("CheckBalance failed: %v", err)
	}
	if !sufficient {
		t.Error("expected balance 50 to cover requirement 50")
	}

	sufficient, _ = service.CheckBalance(user.ID.String(), 51)
	if sufficient {
		t.Error("expected balance 50 to fail requirement 51")
	}

	if _, err := service.CheckBalance(user.ID.String(), -1); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for negative requirement, got %v", err)
	}
}

func TestGetBalanceRejectsMalformedID(t *testing.T) {
	// A nil database proves the identifier check runs before any query.
	service := NewTokenService(nil)

	for _, id := range []string{"", "not-a-uuid", "12345", "00000000-0000-0000-0000-000000000000"} {
		if _, err := service.GetBalance(id); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("id %q: expected ErrInvalidIdentifier, got %v", id, err)
		}
	}
}

func TestBalanceOfUserWithNoHistoryIsZero(t *testing.T) {
	db := setupTestDB(t)
	service := NewTokenService(db)
	user := createTestUser(t, db)

	balance, err := service.GetBalance(user.ID.String())
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance != 0 {
		t.Errorf("expected zero balance for fresh user, got %d", balance)
	}
}

func TestListTransactionsLimitClamp(t *testing.T) {
	db := setupTestDB(t)
	service := NewTokenService(db)
	user := createTestUser(t, db)

	for i := 0; i < 15; i++ {
		grantTokens(t, db, user.ID, 1)
	}

	txs, err := service.ListTransactions(user.ID.String(), 0)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 10 {
		t.Errorf("expected default limit 10, got %d rows", len(txs))
	}

	txs, _ = service.ListTransactions(user.ID.String(), 12)
	if len(txs) != 12 {
		t.Errorf("expected 12 rows, got %d", len(txs))
	}
}
