package repository

import (
	"context"
	"database/sql"
	"fmt"

	"isengard/internal/domain"
	"isengard/internal/errors"
)

type MySQLVoucherRepository struct {
	db *sql.DB
}

func NewMySQLVoucherRepository(db *sql.DB) *MySQLVoucherRepository {
	return &MySQLVoucherRepository{db: db}
}

func (r *MySQLVoucherRepository) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	query := `
		SELECT id, code, percentage, discountValue, quantity, discountType,
		       createdAt, usedAt, expirationDate, active, used
		FROM Vouchers
		WHERE code = ?
	`

	var (
		voucher       domain.Voucher
		percentage    sql.NullFloat64
		discountValue sql.NullFloat64
		usedAt        sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&voucher.ID, &voucher.Code, &percentage, &discountValue, &voucher.Quantity,
		&voucher.DiscountType, &voucher.CreatedAt, &usedAt, &voucher.ExpirationDate,
		&voucher.Active, &voucher.Used,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("voucher with code %s not found", code))
	}
	if err != nil {
		return nil, fmt.Errorf("querying voucher by code: %w", err)
	}

	if percentage.Valid {
		voucher.Percentage = &percentage.Float64
	}
	if discountValue.Valid {
		voucher.DiscountValue = &discountValue.Float64
	}
	if usedAt.Valid {
		voucher.UsedAt = &usedAt.Time
	}

	return &voucher, nil
}

func (r *MySQLVoucherRepository) Update(ctx context.Context, tx *sql.Tx, voucher *domain.Voucher) error {
	query := `UPDATE Vouchers SET quantity = ?, active = ?, used = ?, usedAt = ? WHERE id = ?`

	var usedAt any
	if voucher.UsedAt != nil {
		usedAt = *voucher.UsedAt
	}

	result, err := tx.ExecContext(ctx, query, voucher.Quantity, voucher.Active, voucher.Used, usedAt, voucher.ID)
	if err != nil {
		return fmt.Errorf("updating voucher: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("voucher with id %s not found", voucher.ID))
	}

	return nil
}
