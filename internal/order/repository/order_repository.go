package repository

import (
	"context"
	"database/sql"
	"fmt"

	"isengard/internal/domain"
	"isengard/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, code, customerId, voucherId, voucherUsed, discount, totalValue,
		       status, street, number, additionalInfo, neighborhood, postalCode, city, state,
		       registerDate
		FROM Orders
		WHERE id = ?
	`

	var (
		order     domain.Order
		voucherID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.Code, &order.CustomerID, &voucherID, &order.VoucherUsed,
		&order.Discount, &order.TotalValue, &order.Status,
		&order.Address.Street, &order.Address.Number, &order.Address.AdditionalInfo,
		&order.Address.Neighborhood, &order.Address.PostalCode, &order.Address.City,
		&order.Address.State, &order.RegisterDate,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	if voucherID.Valid {
		order.VoucherID = &voucherID.String
	}

	items, err := r.findItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

// Add inserts the order and its line items inside the caller's transaction.
// The sequential order code comes back from the AUTO_INCREMENT column.
func (r *MySQLOrderRepository) Add(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	query := `
		INSERT INTO Orders (id, customerId, voucherId, voucherUsed, discount, totalValue,
		                    status, street, number, additionalInfo, neighborhood, postalCode,
		                    city, state, registerDate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var voucherID any
	if order.VoucherID != nil {
		voucherID = *order.VoucherID
	}

	result, err := tx.ExecContext(ctx, query,
		order.ID, order.CustomerID, voucherID, order.VoucherUsed, order.Discount,
		order.TotalValue, string(order.Status),
		order.Address.Street, order.Address.Number, order.Address.AdditionalInfo,
		order.Address.Neighborhood, order.Address.PostalCode, order.Address.City,
		order.Address.State, order.RegisterDate,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	code, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting order code: %w", err)
	}
	order.Code = int(code)

	for _, item := range order.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO OrderItems (orderId, productId, name, quantity, unitValue, image) VALUES (?, ?, ?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.Name, item.Quantity, item.UnitValue, item.Image,
		)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
	}

	return nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status domain.OrderStatus) error {
	query := `UPDATE Orders SET status = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}

	return nil
}

// FindOldestAuthorized returns the single oldest order still in AUTHORIZED
// status, or nil when there is none.
func (r *MySQLOrderRepository) FindOldestAuthorized(ctx context.Context) (*domain.Order, error) {
	query := `SELECT id FROM Orders WHERE status = ? ORDER BY registerDate LIMIT 1`

	var id string
	err := r.db.QueryRowContext(ctx, query, string(domain.OrderStatusAuthorized)).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying authorized orders: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *MySQLOrderRepository) findItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT orderId, productId, name, quantity, unitValue, image
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &item.UnitValue, &item.Image)
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}
