package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"isengard/internal/domain"
	apperrors "isengard/internal/errors"
	"isengard/internal/testutil"
)

func insertVoucher(t *testing.T, db *sql.DB, voucher *domain.Voucher) {
	t.Helper()
	var percentage, discountValue any
	if voucher.Percentage != nil {
		percentage = *voucher.Percentage
	}
	if voucher.DiscountValue != nil {
		discountValue = *voucher.DiscountValue
	}

	_, err := db.Exec(`
		INSERT INTO Vouchers (id, code, percentage, discountValue, quantity, discountType, expirationDate, active, used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		voucher.ID, voucher.Code, percentage, discountValue, voucher.Quantity,
		string(voucher.DiscountType), voucher.ExpirationDate, voucher.Active, voucher.Used,
	)
	if err != nil {
		t.Fatalf("failed to insert voucher: %v", err)
	}
}

func TestVoucherRepository_GetByCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	percentage := 15.0
	voucher := &domain.Voucher{
		ID:             uuid.New().String(),
		Code:           "PROMO15",
		Percentage:     &percentage,
		Quantity:       3,
		DiscountType:   domain.DiscountTypePercentage,
		ExpirationDate: time.Now().UTC().Add(24 * time.Hour),
		Active:         true,
	}
	insertVoucher(t, db, voucher)

	repo := NewMySQLVoucherRepository(db)
	loaded, err := repo.GetByCode(context.Background(), "PROMO15")
	if err != nil {
		t.Fatalf("GetByCode() error = %v", err)
	}
	if loaded.Percentage == nil || *loaded.Percentage != 15 {
		t.Errorf("percentage = %v, want 15", loaded.Percentage)
	}
	if loaded.DiscountValue != nil {
		t.Errorf("discount value = %v, want nil", loaded.DiscountValue)
	}
	if loaded.Quantity != 3 || !loaded.Active || loaded.Used {
		t.Errorf("voucher state = %d/%t/%t, want 3/true/false", loaded.Quantity, loaded.Active, loaded.Used)
	}
}

func TestVoucherRepository_GetByCode_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLVoucherRepository(db)
	_, err := repo.GetByCode(context.Background(), "MISSING")
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected a not found error, got %v", err)
	}
}

func TestVoucherRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	value := 20.0
	voucher := &domain.Voucher{
		ID:             uuid.New().String(),
		Code:           "FLAT20",
		DiscountValue:  &value,
		Quantity:       1,
		DiscountType:   domain.DiscountTypeFixedValue,
		ExpirationDate: time.Now().UTC().Add(24 * time.Hour),
		Active:         true,
	}
	insertVoucher(t, db, voucher)

	voucher.DebitQuantity()

	repo := NewMySQLVoucherRepository(db)
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	if err := repo.Update(context.Background(), tx, voucher); err != nil {
		tx.Rollback()
		t.Fatalf("Update() error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	loaded, err := repo.GetByCode(context.Background(), "FLAT20")
	if err != nil {
		t.Fatalf("GetByCode() error = %v", err)
	}
	if loaded.Quantity != 0 || loaded.Active || !loaded.Used {
		t.Errorf("voucher state = %d/%t/%t, want 0/false/true", loaded.Quantity, loaded.Active, loaded.Used)
	}
	if loaded.UsedAt == nil {
		t.Error("expected usedAt to be set")
	}
}
