package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"storefront-service/app/domain"
)

type requisitionRepository struct {
	conn *sql.DB
}

func NewRequisitionRepository(db *sql.DB) domain.RequisitionRepository {
	return &requisitionRepository{db}
}

// Create inserts the requisition header and its items in one transaction.
func (r *requisitionRepository) Create(ctx context.Context, requisition *domain.Requisition, items []domain.RequisitionItem) error {
	return r.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query := `INSERT INTO requisitions (requisition_id, event_details, requested_by, status, total_quantity_allocated, total_quantity_sold, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

		err := tx.QueryRowContext(ctx, query, requisition.RequisitionID,
			requisition.EventDetails, requisition.RequestedBy, requisition.Status,
			requisition.TotalQuantityAllocated, requisition.TotalQuantitySold,
			requisition.Remarks,
		).Scan(&requisition.ID, &requisition.CreatedAt, &requisition.UpdatedAt)
		if err != nil {
			slog.ErrorContext(ctx, "[requisitionRepository] Create", "insertRequisition", err)
			return err
		}

		if len(items) == 0 {
			return nil
		}

		valuePlaceholders := []string{}
		valueArgs := []interface{}{}
		for i, item := range items {
			valuePlaceholders = append(valuePlaceholders,
				fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)", i*6+1, i*6+2, i*6+3, i*6+4, i*6+5, i*6+6))
			valueArgs = append(valueArgs, requisition.RequisitionID, item.ProductID,
				item.ProductName, item.QuantityAllocated, item.QuantitySold, item.QuantityReturned)
		}

		itemQuery := fmt.Sprintf(`INSERT INTO requisition_items (requisition_id, product_id, product_name, quantity_allocated, quantity_sold, quantity_returned) VALUES %s`,
			strings.Join(valuePlaceholders, ", "))

		if _, err := tx.ExecContext(ctx, itemQuery, valueArgs...); err != nil {
			slog.ErrorContext(ctx, "[requisitionRepository] Create", "insertItems", err)
			return err
		}

		return nil
	})
}

func (r *requisitionRepository) GetByRequisitionID(ctx context.Context, requisitionID string) (domain.Requisition, error) {
	query := `SELECT id, requisition_id, event_details, requested_by, status, total_quantity_allocated, total_quantity_sold, remarks, created_at, updated_at
	FROM requisitions WHERE requisition_id = $1`

	var requisition domain.Requisition
	err := r.conn.QueryRowContext(ctx, query, requisitionID).Scan(&requisition.ID,
		&requisition.RequisitionID, &requisition.EventDetails, &requisition.RequestedBy,
		&requisition.Status, &requisition.TotalQuantityAllocated,
		&requisition.TotalQuantitySold, &requisition.Remarks,
		&requisition.CreatedAt, &requisition.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] GetByRequisitionID", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return requisition, domain.ErrNotFound
		}
		return requisition, err
	}

	return requisition, nil
}

func (r *requisitionRepository) GetList(ctx context.Context) ([]domain.Requisition, error) {
	query := `SELECT id, requisition_id, event_details, requested_by, status, total_quantity_allocated, total_quantity_sold, remarks, created_at, updated_at
	FROM requisitions ORDER BY created_at DESC`

	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] GetList", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var requisitions []domain.Requisition
	for rows.Next() {
		var requisition domain.Requisition
		if err := rows.Scan(&requisition.ID, &requisition.RequisitionID,
			&requisition.EventDetails, &requisition.RequestedBy, &requisition.Status,
			&requisition.TotalQuantityAllocated, &requisition.TotalQuantitySold,
			&requisition.Remarks, &requisition.CreatedAt, &requisition.UpdatedAt); err != nil {
			slog.ErrorContext(ctx, "[requisitionRepository] GetList", "scan", err)
			return nil, err
		}
		requisitions = append(requisitions, requisition)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] GetList", "rowError", err)
		return nil, err
	}

	return requisitions, nil
}

func (r *requisitionRepository) GetItems(ctx context.Context, requisitionID string) ([]domain.RequisitionItem, error) {
	query := `SELECT id, requisition_id, product_id, product_name, quantity_allocated, quantity_sold, quantity_returned
	FROM requisition_items WHERE requisition_id = $1 ORDER BY id`

	rows, err := r.conn.QueryContext(ctx, query, requisitionID)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] GetItems", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var items []domain.RequisitionItem
	for rows.Next() {
		var item domain.RequisitionItem
		if err := rows.Scan(&item.ID, &item.RequisitionID, &item.ProductID,
			&item.ProductName, &item.QuantityAllocated, &item.QuantitySold,
			&item.QuantityReturned); err != nil {
			slog.ErrorContext(ctx, "[requisitionRepository] GetItems", "scan", err)
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] GetItems", "rowError", err)
		return nil, err
	}

	return items, nil
}

func (r *requisitionRepository) GetItemsForUpdate(ctx context.Context, requisitionID string, tx *sql.Tx) ([]domain.RequisitionItem, error) {
	query := `SELECT id, requisition_id, product_id, product_name, quantity_allocated, quantity_sold, quantity_returned
	FROM requisition_items WHERE requisition_id = $1 ORDER BY id FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, requisitionID)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] GetItemsForUpdate", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var items []domain.RequisitionItem
	for rows.Next() {
		var item domain.RequisitionItem
		if err := rows.Scan(&item.ID, &item.RequisitionID, &item.ProductID,
			&item.ProductName, &item.QuantityAllocated, &item.QuantitySold,
			&item.QuantityReturned); err != nil {
			slog.ErrorContext(ctx, "[requisitionRepository] GetItemsForUpdate", "scan", err)
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] GetItemsForUpdate", "rowError", err)
		return nil, err
	}

	return items, nil
}

func (r *requisitionRepository) UpdateStatus(ctx context.Context, requisitionID string, status domain.RequisitionStatus, tx *sql.Tx) error {
	query := `UPDATE requisitions SET status = $1, updated_at = NOW() WHERE requisition_id = $2`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, status, requisitionID)
	} else {
		_, err = r.conn.ExecContext(ctx, query, status, requisitionID)
	}
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] UpdateStatus", "execContext", err)
		return err
	}

	return nil
}

func (r *requisitionRepository) UpdateItemCounts(ctx context.Context, itemID, sold, returned int64, tx *sql.Tx) error {
	query := `UPDATE requisition_items SET quantity_sold = $1, quantity_returned = $2 WHERE id = $3`

	_, err := tx.ExecContext(ctx, query, sold, returned, itemID)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] UpdateItemCounts", "execContext", err)
		return err
	}

	return nil
}

func (r *requisitionRepository) UpdateTotalSold(ctx context.Context, requisitionID string, totalSold int64, tx *sql.Tx) error {
	query := `UPDATE requisitions SET total_quantity_sold = $1, updated_at = NOW() WHERE requisition_id = $2`

	_, err := tx.ExecContext(ctx, query, totalSold, requisitionID)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] UpdateTotalSold", "execContext", err)
		return err
	}

	return nil
}

func (r *requisitionRepository) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] WithTransaction", "beginTx", err)
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			slog.ErrorContext(ctx, "[requisitionRepository] WithTransaction", "rollback", rollbackErr)
			return err
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "[requisitionRepository] WithTransaction", "commit", err)
		return err
	}

	return nil
}
