package domain

import (
	"context"
	"database/sql"
	"time"
)

type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	CategoryID   int64     `json:"category_id"`
	Image        string    `json:"image"`
	Stock        int64     `json:"stock"`
	Manufacturer string    `json:"manufacturer"`
	Sizes        []string  `json:"sizes,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProductCreateRequest struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	Price        int64    `json:"price" validate:"required,gt=0"`
	CategoryID   int64    `json:"category_id" validate:"required"`
	Image        string   `json:"image"`
	Stock        int64    `json:"stock" validate:"gte=0"`
	Manufacturer string   `json:"manufacturer"`
	Sizes        []string `json:"sizes"`
}

type ProductUpdateRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Price        *int64   `json:"price" validate:"omitempty,gt=0"`
	CategoryID   *int64   `json:"category_id"`
	Image        *string  `json:"image"`
	Stock        *int64   `json:"stock" validate:"omitempty,gte=0"`
	Manufacturer *string  `json:"manufacturer"`
	Sizes        []string `json:"sizes"`
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id int64) (Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error)
	GetList(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	SoftDelete(ctx context.Context, id int64) error
	LockForUpdate(ctx context.Context, id int64, tx *sql.Tx) (Product, error)

	// AdjustStock applies delta atomically and fails with ErrValidation if the
	// resulting stock would be negative. Used by the requisition path.
	AdjustStock(ctx context.Context, id, delta int64, tx *sql.Tx) (int64, error)
	// AdjustStockClamped applies delta atomically, flooring the result at zero.
	// Used by the order delivery path, where over-deduction is silently floored.
	AdjustStockClamped(ctx context.Context, id, delta int64, tx *sql.Tx) (int64, error)

	WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error
}

type ProductUsecase interface {
	Create(ctx context.Context, req ProductCreateRequest) (*Product, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	GetList(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id int64, req ProductUpdateRequest) (*Product, error)
	Delete(ctx context.Context, id int64) error
}
