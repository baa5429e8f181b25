package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database/sql drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// ErrNotFound is returned when a product id is unknown
var ErrNotFound = errors.New("product not found")

// Store is the host catalog backed by a SQL database
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the catalog database and verifies the connection
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported catalog driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// an in-memory database lives only as long as its single connection
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// NewStore wraps an already opened database
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the products table if needed
func (s *Store) Migrate(ctx context.Context) error {
	createProductsTable := `
	CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(64) PRIMARY KEY,
		name TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		image TEXT,
		description TEXT,
		category VARCHAR(64)
	);`

	if _, err := s.db.ExecContext(ctx, createProductsTable); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// Seed inserts products when the catalog is empty
func (s *Store) Seed(ctx context.Context, products []Product) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := s.rebind("INSERT INTO products (id, name, price, image, description, category) VALUES (?, ?, ?, ?, ?, ?)")
	for _, p := range products {
		if _, err := tx.ExecContext(ctx, insert, p.ID, p.Name, p.Price, p.Image, p.Description, p.Category); err != nil {
			return 0, fmt.Errorf("failed to insert product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(products), nil
}

// Get returns a single product
func (s *Store) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	var image, description, category sql.NullString

	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT id, name, price, image, description, category FROM products WHERE id = ?"), id,
	).Scan(&p.ID, &p.Name, &p.Price, &image, &description, &category)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Product{}, fmt.Errorf("failed to load product %s: %w", id, err)
	}

	p.Image = image.String
	p.Description = description.String
	p.Category = category.String
	return p, nil
}

// List returns every product ordered by category and name
func (s *Store) List(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price, image, description, category FROM products ORDER BY category, name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		var image, description, category sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &image, &description, &category); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Image = image.String
		p.Description = description.String
		p.Category = category.String
		products = append(products, p)
	}

	return products, rows.Err()
}

// rebind converts ? placeholders to $n for postgres
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
