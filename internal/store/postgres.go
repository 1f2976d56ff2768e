package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"product-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrProductNotFound = errors.New("store: product not found")
)

// PostgresStore implements the ProductStorer interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the products table if it does not exist yet.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE,
			category VARCHAR(32) NOT NULL DEFAULT 'UNKNOWN'
		);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("store: InitSchema failed to create products table: %w", err)
	}
	return nil
}

// CreateProduct inserts a new row for the product's current field values and
// returns the stored row carrying the freshly assigned id. The id column is
// never supplied on insert, so an instance arriving with an id is still
// treated as a plain insert and the incoming id is ignored.
func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, description, price, available, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, price, available, category;
	`
	row := s.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Available, product.Category.String(),
	)

	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to scan row: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, available, category
		FROM products
		WHERE id = $1;
	`
	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProductByID failed to scan row: %w", err)
	}
	return product, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, available, category
		FROM products
		ORDER BY id;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListProducts failed to query products: %w", err)
	}
	return collectProducts(rows, "ListProducts")
}

// UpdateProduct persists the product's current field values to the row
// matching its id. A nil id is an entity-level precondition failure, not a
// storage error, and no SQL is issued for it.
func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.ID == nil {
		return nil, fmt.Errorf("%w: Update called with empty ID field", domain.ErrValidation)
	}
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, available = $4, category = $5
		WHERE id = $6
		RETURNING id, name, description, price, available, category;
	`
	row := s.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Available, product.Category.String(),
		*product.ID,
	)

	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: UpdateProduct failed to scan row: %w", err)
	}
	return updated, nil
}

// DeleteProduct removes the row matching id. Deleting a nonexistent id is a
// no-op, not an error.
func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1;`
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("store: DeleteProduct failed to execute delete: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListProductsByName(ctx context.Context, name string) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, available, category
		FROM products
		WHERE name = $1
		ORDER BY id;
	`
	rows, err := s.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("store: ListProductsByName failed to query products: %w", err)
	}
	return collectProducts(rows, "ListProductsByName")
}

func (s *PostgresStore) ListProductsByAvailability(ctx context.Context, available bool) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, available, category
		FROM products
		WHERE available = $1
		ORDER BY id;
	`
	rows, err := s.db.QueryContext(ctx, query, available)
	if err != nil {
		return nil, fmt.Errorf("store: ListProductsByAvailability failed to query products: %w", err)
	}
	return collectProducts(rows, "ListProductsByAvailability")
}

func (s *PostgresStore) ListProductsByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, available, category
		FROM products
		WHERE category = $1
		ORDER BY id;
	`
	rows, err := s.db.QueryContext(ctx, query, category.String())
	if err != nil {
		return nil, fmt.Errorf("store: ListProductsByCategory failed to query products: %w", err)
	}
	return collectProducts(rows, "ListProductsByCategory")
}

// ListProductsByPrice matches on exact decimal equality. Callers normalize
// string-encoded prices into decimal.Decimal before reaching the store, so a
// value and its string representation produce identical result sets.
func (s *PostgresStore) ListProductsByPrice(ctx context.Context, price decimal.Decimal) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, available, category
		FROM products
		WHERE price = $1
		ORDER BY id;
	`
	rows, err := s.db.QueryContext(ctx, query, price)
	if err != nil {
		return nil, fmt.Errorf("store: ListProductsByPrice failed to query products: %w", err)
	}
	return collectProducts(rows, "ListProductsByPrice")
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		log.Println("INFO: Closing database connection pool...")
		if err := s.db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database connection pool: %v", err)
			return err
		}
		log.Println("INFO: Database connection pool closed successfully.")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p        domain.Product
		id       int64
		category string
	)
	if err := row.Scan(&id, &p.Name, &p.Description, &p.Price, &p.Available, &category); err != nil {
		return nil, err
	}
	p.ID = &id

	parsed, err := domain.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("store: row %d carries unrecognized category %q", id, category)
	}
	p.Category = parsed
	return &p, nil
}

func collectProducts(rows *sql.Rows, op string) ([]domain.Product, error) {
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("store: %s failed to scan product row: %w", op, err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %s iteration error: %w", op, err)
	}
	return products, nil
}
