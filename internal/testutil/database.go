package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the MySQL test database. It expects a server on
// localhost:3306 with a database named 'isengard_test' and skips the test
// when none is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/isengard_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the handle.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderItems", "StoredEvents", "Orders", "Vouchers", "Products", "CartItems", "Carts"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the tables the repository tests need.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		code INT NOT NULL AUTO_INCREMENT UNIQUE,
		customerId CHAR(36) NOT NULL,
		voucherId CHAR(36),
		voucherUsed TINYINT(1) NOT NULL DEFAULT 0,
		discount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		totalValue DECIMAL(10,2) NOT NULL,
		registerDate DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status VARCHAR(20) NOT NULL,
		street VARCHAR(255),
		number VARCHAR(50),
		additionalInfo VARCHAR(255),
		neighborhood VARCHAR(100),
		postalCode VARCHAR(20),
		city VARCHAR(100),
		state VARCHAR(50),
		INDEX idx_customer (customerId),
		INDEX idx_status_date (status, registerDate)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId CHAR(36) NOT NULL,
		productId CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		unitValue DECIMAL(10,2) NOT NULL,
		image VARCHAR(255) NOT NULL DEFAULT '',
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId)
	)`

	createVouchersTable := `
	CREATE TABLE IF NOT EXISTS Vouchers (
		id CHAR(36) NOT NULL PRIMARY KEY,
		code VARCHAR(100) NOT NULL UNIQUE,
		percentage DECIMAL(10,2),
		discountValue DECIMAL(10,2),
		quantity INT NOT NULL DEFAULT 0,
		discountType VARCHAR(20) NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expirationDate DATETIME NOT NULL,
		active TINYINT(1) NOT NULL DEFAULT 1,
		used TINYINT(1) NOT NULL DEFAULT 0,
		usedAt DATETIME
	)`

	createStoredEventsTable := `
	CREATE TABLE IF NOT EXISTS StoredEvents (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		aggregateId CHAR(36) NOT NULL,
		eventType VARCHAR(100) NOT NULL,
		payload JSON NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_aggregate (aggregateId)
	)`

	createProductsTable := `
	CREATE TABLE IF NOT EXISTS Products (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		price DECIMAL(10,2) NOT NULL,
		stock INT NOT NULL DEFAULT 0,
		image VARCHAR(255),
		active TINYINT(1) NOT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createCartsTable := `
	CREATE TABLE IF NOT EXISTS Carts (
		id CHAR(36) NOT NULL PRIMARY KEY,
		customerId CHAR(36) NOT NULL UNIQUE,
		totalValue DECIMAL(10,2) NOT NULL DEFAULT 0.00
	)`

	createCartItemsTable := `
	CREATE TABLE IF NOT EXISTS CartItems (
		id CHAR(36) NOT NULL PRIMARY KEY,
		cartId CHAR(36) NOT NULL,
		productId CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		unitValue DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (cartId) REFERENCES Carts(id) ON DELETE CASCADE,
		INDEX idx_cart (cartId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Orders", createOrdersTable},
		{"OrderItems", createOrderItemsTable},
		{"Vouchers", createVouchersTable},
		{"StoredEvents", createStoredEventsTable},
		{"Products", createProductsTable},
		{"Carts", createCartsTable},
		{"CartItems", createCartItemsTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
