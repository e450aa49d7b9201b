package domain

import (
	"context"
	"time"
)

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetList(ctx context.Context) ([]Category, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryUsecase interface {
	Create(ctx context.Context, req CategoryCreateRequest) (*Category, error)
	GetList(ctx context.Context) ([]Category, error)
	Delete(ctx context.Context, id int64) error
}
