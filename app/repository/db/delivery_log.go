package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"storefront-service/app/domain"
)

type deliveryLogRepository struct {
	conn *sql.DB
}

func NewDeliveryLogRepository(db *sql.DB) domain.DeliveryLogRepository {
	return &deliveryLogRepository{db}
}

// Create appends log rows. There is no update or delete: delivery logs are
// immutable audit records.
func (r *deliveryLogRepository) Create(ctx context.Context, logs []domain.DeliveryLog, tx *sql.Tx) error {
	if len(logs) == 0 {
		return nil
	}

	valuePlaceholders := []string{}
	valueArgs := []interface{}{}
	for i, l := range logs {
		valuePlaceholders = append(valuePlaceholders,
			fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)", i*6+1, i*6+2, i*6+3, i*6+4, i*6+5, i*6+6))
		valueArgs = append(valueArgs, l.OrderID, l.ProductName, l.Quantity, l.Price,
			l.DeliveryAgent, l.DeliveredAt)
	}

	query := fmt.Sprintf(`INSERT INTO delivery_logs (order_id, product_name, quantity, price, delivery_agent, delivered_at) VALUES %s`,
		strings.Join(valuePlaceholders, ", "))

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, valueArgs...)
	} else {
		_, err = r.conn.ExecContext(ctx, query, valueArgs...)
	}
	if err != nil {
		slog.ErrorContext(ctx, "[deliveryLogRepository] Create", "execContext", err)
		return err
	}

	return nil
}

func (r *deliveryLogRepository) GetList(ctx context.Context) ([]domain.DeliveryLog, error) {
	query := `SELECT id, order_id, product_name, quantity, price, delivery_agent, delivered_at
	FROM delivery_logs ORDER BY delivered_at DESC`

	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "[deliveryLogRepository] GetList", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var logs []domain.DeliveryLog
	for rows.Next() {
		var l domain.DeliveryLog
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductName, &l.Quantity,
			&l.Price, &l.DeliveryAgent, &l.DeliveredAt); err != nil {
			slog.ErrorContext(ctx, "[deliveryLogRepository] GetList", "scan", err)
			return nil, err
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[deliveryLogRepository] GetList", "rowError", err)
		return nil, err
	}

	return logs, nil
}
