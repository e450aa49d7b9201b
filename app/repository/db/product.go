package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"storefront-service/app/domain"
)

type productRepository struct {
	conn *sql.DB
}

func NewProductRepository(db *sql.DB) domain.ProductRepository {
	return &productRepository{db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (name, description, price, category_id, image, stock, manufacturer, sizes, active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
	RETURNING id, created_at, updated_at`

	err := r.conn.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.CategoryID,
		product.Image, product.Stock, product.Manufacturer, joinSizes(product.Sizes),
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] Create", "queryRowContext", err)
		return err
	}

	product.Active = true
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	query := `SELECT id, name, description, price, category_id, image, stock, manufacturer, sizes, active, created_at, updated_at
	FROM products WHERE id = $1`

	var product domain.Product
	var sizes string
	err := r.conn.QueryRowContext(ctx, query, id).Scan(&product.ID, &product.Name,
		&product.Description, &product.Price, &product.CategoryID, &product.Image,
		&product.Stock, &product.Manufacturer, &sizes, &product.Active,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] GetByID", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return product, domain.ErrNotFound
		}
		return product, err
	}
	product.Sizes = splitSizes(sizes)

	return product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	query := `SELECT id, name, description, price, category_id, image, stock, manufacturer, sizes, active, created_at, updated_at
	FROM products WHERE id = ANY($1)`

	rows, err := r.conn.QueryContext(ctx, query, ids)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] GetByIDs", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	products := make(map[int64]domain.Product)
	for rows.Next() {
		var product domain.Product
		var sizes string
		if err := rows.Scan(&product.ID, &product.Name, &product.Description,
			&product.Price, &product.CategoryID, &product.Image, &product.Stock,
			&product.Manufacturer, &sizes, &product.Active,
			&product.CreatedAt, &product.UpdatedAt); err != nil {
			slog.ErrorContext(ctx, "[productRepository] GetByIDs", "scan", err)
			return nil, err
		}
		product.Sizes = splitSizes(sizes)
		products[product.ID] = product
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[productRepository] GetByIDs", "rowError", err)
		return nil, err
	}

	return products, nil
}

func (r *productRepository) GetList(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, name, description, price, category_id, image, stock, manufacturer, sizes, active, created_at, updated_at
	FROM products WHERE active = TRUE ORDER BY created_at DESC`

	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] GetList", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		var sizes string
		if err := rows.Scan(&product.ID, &product.Name, &product.Description,
			&product.Price, &product.CategoryID, &product.Image, &product.Stock,
			&product.Manufacturer, &sizes, &product.Active,
			&product.CreatedAt, &product.UpdatedAt); err != nil {
			slog.ErrorContext(ctx, "[productRepository] GetList", "scan", err)
			return nil, err
		}
		product.Sizes = splitSizes(sizes)
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[productRepository] GetList", "rowError", err)
		return nil, err
	}

	return products, nil
}

// Update writes the descriptive fields only. Stock is never written here: every
// stock mutation goes through AdjustStock or AdjustStockClamped.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `UPDATE products
	SET name = $1, description = $2, price = $3, category_id = $4, image = $5,
	    manufacturer = $6, sizes = $7, updated_at = NOW()
	WHERE id = $8`

	res, err := r.conn.ExecContext(ctx, query, product.Name, product.Description,
		product.Price, product.CategoryID, product.Image,
		product.Manufacturer, joinSizes(product.Sizes), product.ID)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] Update", "execContext", err)
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] Update", "rowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// SoftDelete retains the record: stock is forced to zero and the product is
// hidden from the catalog.
func (r *productRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE products SET stock = 0, active = FALSE, updated_at = NOW() WHERE id = $1`

	res, err := r.conn.ExecContext(ctx, query, id)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] SoftDelete", "execContext", err)
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] SoftDelete", "rowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *productRepository) LockForUpdate(ctx context.Context, id int64, tx *sql.Tx) (domain.Product, error) {
	query := `SELECT id, name, price, stock, active FROM products WHERE id = $1 FOR UPDATE`

	var product domain.Product
	err := tx.QueryRowContext(ctx, query, id).Scan(&product.ID, &product.Name,
		&product.Price, &product.Stock, &product.Active)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] LockForUpdate", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return product, domain.ErrNotFound
		}
		return product, err
	}

	return product, nil
}

// AdjustStock applies the delta only when the result stays non-negative.
// Requisition reconciliation goes through here so an over-deduction fails the
// whole batch instead of being floored.
func (r *productRepository) AdjustStock(ctx context.Context, id, delta int64, tx *sql.Tx) (int64, error) {
	query := `UPDATE products SET stock = stock + $1, updated_at = NOW()
	WHERE id = $2 AND stock + $1 >= 0
	RETURNING stock`

	var stock int64
	err := tx.QueryRowContext(ctx, query, delta, id).Scan(&stock)
	if err != nil {
		if err == sql.ErrNoRows {
			// Either the product is gone or the guard rejected a negative result.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return 0, getErr
			}
			return 0, fmt.Errorf("%w: insufficient stock for product %d", domain.ErrValidation, id)
		}
		slog.ErrorContext(ctx, "[productRepository] AdjustStock", "queryRowContext", err)
		return 0, err
	}

	return stock, nil
}

// AdjustStockClamped floors the result at zero. Order delivery goes through
// here: over-deduction is silently clamped, never an error.
func (r *productRepository) AdjustStockClamped(ctx context.Context, id, delta int64, tx *sql.Tx) (int64, error) {
	query := `UPDATE products SET stock = GREATEST(stock + $1, 0), updated_at = NOW()
	WHERE id = $2
	RETURNING stock`

	var stock int64
	err := tx.QueryRowContext(ctx, query, delta, id).Scan(&stock)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] AdjustStockClamped", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}

	return stock, nil
}

func (r *productRepository) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] WithTransaction", "beginTx", err)
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			slog.ErrorContext(ctx, "[productRepository] WithTransaction", "rollback", rollbackErr)
			return err
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "[productRepository] WithTransaction", "commit", err)
		return err
	}

	return nil
}

func joinSizes(sizes []string) string {
	return strings.Join(sizes, ",")
}

func splitSizes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
