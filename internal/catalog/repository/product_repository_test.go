package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"isengard/internal/domain"
	"isengard/internal/testutil"
)

func insertProduct(t *testing.T, db *sql.DB, product domain.Product) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO Products (id, name, description, price, stock, image, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Description, product.Price,
		product.Stock, product.Image, product.Active,
	)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}
}

func TestProductRepository_GetByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	first := domain.Product{ID: uuid.New().String(), Name: "Keyboard", Price: 50, Stock: 5, Active: true}
	second := domain.Product{ID: uuid.New().String(), Name: "Mouse", Price: 20, Stock: 10, Active: true}
	third := domain.Product{ID: uuid.New().String(), Name: "Monitor", Price: 200, Stock: 2, Active: true}
	insertProduct(t, db, first)
	insertProduct(t, db, second)
	insertProduct(t, db, third)

	repo := NewMySQLProductRepository(db)
	products, err := repo.GetByIDs(context.Background(), []string{first.ID, second.ID})
	if err != nil {
		t.Fatalf("GetByIDs() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products = %d, want 2", len(products))
	}
	for _, p := range products {
		if p.ID == third.ID {
			t.Errorf("unexpected product %s in result", p.ID)
		}
	}
}

func TestProductRepository_GetByIDs_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	products, err := repo.GetByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetByIDs() error = %v", err)
	}
	if products != nil {
		t.Errorf("products = %v, want nil", products)
	}
}

func TestProductRepository_UpdateStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	product := domain.Product{ID: uuid.New().String(), Name: "Keyboard", Price: 50, Stock: 5, Active: true}
	insertProduct(t, db, product)

	product.DecrementStock(2)

	repo := NewMySQLProductRepository(db)
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	if err := repo.UpdateStock(context.Background(), tx, &product); err != nil {
		tx.Rollback()
		t.Fatalf("UpdateStock() error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	loaded, err := repo.GetByIDs(context.Background(), []string{product.ID})
	if err != nil {
		t.Fatalf("GetByIDs() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0].Stock != 3 {
		t.Errorf("stock = %v, want 3", loaded)
	}
}
