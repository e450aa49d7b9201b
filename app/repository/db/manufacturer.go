package db

import (
	"context"
	"database/sql"
	"log/slog"

	"storefront-service/app/domain"
)

type manufacturerOrderRepository struct {
	conn *sql.DB
}

func NewManufacturerOrderRepository(db *sql.DB) domain.ManufacturerOrderRepository {
	return &manufacturerOrderRepository{db}
}

func (r *manufacturerOrderRepository) Create(ctx context.Context, order *domain.ManufacturerOrder) error {
	query := `INSERT INTO manufacturer_orders (mfg_order_id, product_id, product_name, manufacturer, quantity, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, updated_at`

	err := r.conn.QueryRowContext(ctx, query, order.MfgOrderID, order.ProductID,
		order.ProductName, order.Manufacturer, order.Quantity, order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderRepository] Create", "queryRowContext", err)
		return err
	}

	return nil
}

func (r *manufacturerOrderRepository) GetByMfgOrderID(ctx context.Context, mfgOrderID string) (domain.ManufacturerOrder, error) {
	query := `SELECT id, mfg_order_id, product_id, product_name, manufacturer, quantity, status, created_at, updated_at
	FROM manufacturer_orders WHERE mfg_order_id = $1`

	var order domain.ManufacturerOrder
	err := r.conn.QueryRowContext(ctx, query, mfgOrderID).Scan(&order.ID,
		&order.MfgOrderID, &order.ProductID, &order.ProductName, &order.Manufacturer,
		&order.Quantity, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderRepository] GetByMfgOrderID", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return order, domain.ErrNotFound
		}
		return order, err
	}

	return order, nil
}

func (r *manufacturerOrderRepository) GetList(ctx context.Context) ([]domain.ManufacturerOrder, error) {
	query := `SELECT id, mfg_order_id, product_id, product_name, manufacturer, quantity, status, created_at, updated_at
	FROM manufacturer_orders ORDER BY created_at DESC`

	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderRepository] GetList", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var orders []domain.ManufacturerOrder
	for rows.Next() {
		var order domain.ManufacturerOrder
		if err := rows.Scan(&order.ID, &order.MfgOrderID, &order.ProductID,
			&order.ProductName, &order.Manufacturer, &order.Quantity, &order.Status,
			&order.CreatedAt, &order.UpdatedAt); err != nil {
			slog.ErrorContext(ctx, "[manufacturerOrderRepository] GetList", "scan", err)
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderRepository] GetList", "rowError", err)
		return nil, err
	}

	return orders, nil
}

func (r *manufacturerOrderRepository) UpdateStatus(ctx context.Context, mfgOrderID string, status domain.ManufacturerOrderStatus, tx *sql.Tx) error {
	query := `UPDATE manufacturer_orders SET status = $1, updated_at = NOW() WHERE mfg_order_id = $2`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, status, mfgOrderID)
	} else {
		_, err = r.conn.ExecContext(ctx, query, status, mfgOrderID)
	}
	if err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderRepository] UpdateStatus", "execContext", err)
		return err
	}

	return nil
}

func (r *manufacturerOrderRepository) Delete(ctx context.Context, mfgOrderID string) error {
	query := `DELETE FROM manufacturer_orders WHERE mfg_order_id = $1`

	res, err := r.conn.ExecContext(ctx, query, mfgOrderID)
	if err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderRepository] Delete", "execContext", err)
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderRepository] Delete", "rowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *manufacturerOrderRepository) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderRepository] WithTransaction", "beginTx", err)
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			slog.ErrorContext(ctx, "[manufacturerOrderRepository] WithTransaction", "rollback", rollbackErr)
			return err
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderRepository] WithTransaction", "commit", err)
		return err
	}

	return nil
}
