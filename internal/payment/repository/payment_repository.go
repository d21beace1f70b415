package repository

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"isengard/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type PostgresPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPaymentRepository(pool *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{pool: pool}
}

// RunMigrations brings the payment schema up to date.
func (r *PostgresPaymentRepository) RunMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// SavePayment persists the payment and its first transaction atomically.
func (r *PostgresPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment, transaction domain.Transaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO payments (id, order_id, total_value, card_name, card_number, card_expiration)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		payment.ID, payment.OrderID, payment.TotalValue,
		payment.CardName, payment.CardNumber, payment.CardExpiration,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	if err := insertTransaction(ctx, tx, transaction); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// AddTransaction appends a new phase record for an existing payment.
func (r *PostgresPaymentRepository) AddTransaction(ctx context.Context, transaction domain.Transaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertTransaction(ctx, tx, transaction); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetTransactionsByOrderID returns the order's transactions, most recent
// first.
func (r *PostgresPaymentRepository) GetTransactionsByOrderID(ctx context.Context, orderID string) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, payment_id, COALESCE(authorization_code, ''), COALESCE(card_brand, ''),
		        status, total_value, transaction_cost, COALESCE(external_id, '')
		 FROM transactions
		 WHERE order_id = $1
		 ORDER BY created_at DESC`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(
			&t.ID, &t.OrderID, &t.PaymentID, &t.AuthorizationCode, &t.CardBrand,
			&t.Status, &t.TotalValue, &t.TransactionCost, &t.ExternalID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return transactions, nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, transaction domain.Transaction) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO transactions (id, order_id, payment_id, authorization_code, card_brand,
		                           status, total_value, transaction_cost, external_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		transaction.ID, transaction.OrderID, transaction.PaymentID,
		transaction.AuthorizationCode, transaction.CardBrand,
		string(transaction.Status), transaction.TotalValue,
		transaction.TransactionCost, transaction.ExternalID,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}
