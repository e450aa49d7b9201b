package db

import (
	"context"
	"database/sql"
	"log/slog"

	"storefront-service/app/domain"
)

type categoryRepository struct {
	conn *sql.DB
}

func NewCategoryRepository(db *sql.DB) domain.CategoryRepository {
	return &categoryRepository{db}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id, created_at`

	err := r.conn.QueryRowContext(ctx, query, category.Name).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[categoryRepository] Create", "queryRowContext", err)
		return err
	}

	return nil
}

func (r *categoryRepository) GetList(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, created_at FROM categories ORDER BY name`

	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "[categoryRepository] GetList", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedAt); err != nil {
			slog.ErrorContext(ctx, "[categoryRepository] GetList", "scan", err)
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[categoryRepository] GetList", "rowError", err)
		return nil, err
	}

	return categories, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`

	res, err := r.conn.ExecContext(ctx, query, id)
	if err != nil {
		slog.ErrorContext(ctx, "[categoryRepository] Delete", "execContext", err)
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		slog.ErrorContext(ctx, "[categoryRepository] Delete", "rowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
