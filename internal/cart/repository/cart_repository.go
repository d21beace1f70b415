package repository

import (
	"context"
	"database/sql"
	"fmt"

	"isengard/internal/domain"
	"isengard/internal/errors"
)

type MySQLCartRepository struct {
	db *sql.DB
}

func NewMySQLCartRepository(db *sql.DB) *MySQLCartRepository {
	return &MySQLCartRepository{db: db}
}

func (r *MySQLCartRepository) GetByCustomerID(ctx context.Context, customerID string) (*domain.CustomerCart, error) {
	query := `SELECT id, customerId, totalValue FROM Carts WHERE customerId = ?`

	var cart domain.CustomerCart
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(&cart.ID, &cart.CustomerID, &cart.TotalValue)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("cart for customer %s not found", customerID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying cart: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, cartId, productId, name, quantity, unitValue FROM CartItems WHERE cartId = ?`,
		cart.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Name, &item.Quantity, &item.UnitValue)
		if err != nil {
			return nil, fmt.Errorf("scanning cart item row: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cart item rows: %w", err)
	}

	return &cart, nil
}

// Delete removes the customer's cart and its items. Items go with the cart
// through the foreign key cascade.
func (r *MySQLCartRepository) Delete(ctx context.Context, cart *domain.CustomerCart) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM Carts WHERE id = ?`, cart.ID)
	if err != nil {
		return fmt.Errorf("deleting cart: %w", err)
	}
	return nil
}
