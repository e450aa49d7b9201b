package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"storefront-service/app/domain"
)

type orderRepository struct {
	conn *sql.DB
}

func NewOrderRepository(db *sql.DB) domain.OrderRepository {
	return &orderRepository{db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	return r.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query := `INSERT INTO orders (order_id, customer_name, address, total, order_status, delivery_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

		err := tx.QueryRowContext(ctx, query, order.OrderID, order.CustomerName,
			order.Address, order.Total, order.OrderStatus, order.DeliveryStatus,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			slog.ErrorContext(ctx, "[orderRepository] Create", "insertOrder", err)
			return err
		}

		valuePlaceholders := []string{}
		valueArgs := []interface{}{}
		for i, item := range items {
			valuePlaceholders = append(valuePlaceholders,
				fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)", i*6+1, i*6+2, i*6+3, i*6+4, i*6+5, i*6+6))
			valueArgs = append(valueArgs, order.OrderID, item.ProductID,
				item.ProductName, item.Quantity, item.Price, item.Size)
		}

		itemQuery := fmt.Sprintf(`INSERT INTO order_items (order_id, product_id, product_name, quantity, price, size) VALUES %s`,
			strings.Join(valuePlaceholders, ", "))

		if _, err := tx.ExecContext(ctx, itemQuery, valueArgs...); err != nil {
			slog.ErrorContext(ctx, "[orderRepository] Create", "insertItems", err)
			return err
		}

		return nil
	})
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (domain.Order, error) {
	query := `SELECT id, order_id, customer_name, address, total, order_status, delivery_status, created_at, updated_at
	FROM orders WHERE order_id = $1`

	var order domain.Order
	err := r.conn.QueryRowContext(ctx, query, orderID).Scan(&order.ID, &order.OrderID,
		&order.CustomerName, &order.Address, &order.Total, &order.OrderStatus,
		&order.DeliveryStatus, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[orderRepository] GetByOrderID", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return order, domain.ErrNotFound
		}
		return order, err
	}

	return order, nil
}

func (r *orderRepository) GetItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `SELECT id, order_id, product_id, product_name, quantity, price, size
	FROM order_items WHERE order_id = $1 ORDER BY id`

	rows, err := r.conn.QueryContext(ctx, query, orderID)
	if err != nil {
		slog.ErrorContext(ctx, "[orderRepository] GetItems", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.ProductName, &item.Quantity, &item.Price, &item.Size); err != nil {
			slog.ErrorContext(ctx, "[orderRepository] GetItems", "scan", err)
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[orderRepository] GetItems", "rowError", err)
		return nil, err
	}

	return items, nil
}

func (r *orderRepository) GetList(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT id, order_id, customer_name, address, total, order_status, delivery_status, created_at, updated_at
	FROM orders ORDER BY created_at DESC`

	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "[orderRepository] GetList", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.OrderID, &order.CustomerName,
			&order.Address, &order.Total, &order.OrderStatus, &order.DeliveryStatus,
			&order.CreatedAt, &order.UpdatedAt); err != nil {
			slog.ErrorContext(ctx, "[orderRepository] GetList", "scan", err)
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[orderRepository] GetList", "rowError", err)
		return nil, err
	}

	return orders, nil
}

func (r *orderRepository) UpdateStatuses(ctx context.Context, orderID string, orderStatus domain.OrderStatus, deliveryStatus domain.DeliveryStatus, tx *sql.Tx) error {
	query := `UPDATE orders SET order_status = $1, delivery_status = $2, updated_at = NOW() WHERE order_id = $3`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, orderStatus, deliveryStatus, orderID)
	} else {
		_, err = r.conn.ExecContext(ctx, query, orderStatus, deliveryStatus, orderID)
	}
	if err != nil {
		slog.ErrorContext(ctx, "[orderRepository] UpdateStatuses", "execContext", err)
		return err
	}

	return nil
}

func (r *orderRepository) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "[orderRepository] WithTransaction", "beginTx", err)
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			slog.ErrorContext(ctx, "[orderRepository] WithTransaction", "rollback", rollbackErr)
			return err
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "[orderRepository] WithTransaction", "commit", err)
		return err
	}

	return nil
}
