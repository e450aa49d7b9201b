package domain

import (
	"context"
	"database/sql"
	"time"
)

type ManufacturerOrderStatus string

const (
	ManufacturerOrderStatusOrdered   ManufacturerOrderStatus = "Ordered"
	ManufacturerOrderStatusInTransit ManufacturerOrderStatus = "In Transit"
	ManufacturerOrderStatusReceived  ManufacturerOrderStatus = "Received"
	ManufacturerOrderStatusCancelled ManufacturerOrderStatus = "Cancelled"
)

type ManufacturerOrder struct {
	ID           int64                   `json:"-"`
	MfgOrderID   string                  `json:"mfg_order_id"`
	ProductID    int64                   `json:"product_id"`
	ProductName  string                  `json:"product_name"`
	Manufacturer string                  `json:"manufacturer"`
	Quantity     int64                   `json:"quantity"`
	Status       ManufacturerOrderStatus `json:"status"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

type ManufacturerOrderCreateRequest struct {
	ProductID    int64  `json:"product_id" validate:"required"`
	Manufacturer string `json:"manufacturer" validate:"required"`
	Quantity     int64  `json:"quantity" validate:"required,gt=0"`
}

type ManufacturerOrderStatusRequest struct {
	Status ManufacturerOrderStatus `json:"status" validate:"required,oneof=Ordered 'In Transit' Received Cancelled"`
}

type ManufacturerOrderRepository interface {
	Create(ctx context.Context, order *ManufacturerOrder) error
	GetByMfgOrderID(ctx context.Context, mfgOrderID string) (ManufacturerOrder, error)
	GetList(ctx context.Context) ([]ManufacturerOrder, error)
	UpdateStatus(ctx context.Context, mfgOrderID string, status ManufacturerOrderStatus, tx *sql.Tx) error
	Delete(ctx context.Context, mfgOrderID string) error

	WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error
}

type ManufacturerOrderUsecase interface {
	Create(ctx context.Context, req ManufacturerOrderCreateRequest) (*ManufacturerOrder, error)
	GetList(ctx context.Context) ([]ManufacturerOrder, error)
	UpdateStatus(ctx context.Context, mfgOrderID string, req ManufacturerOrderStatusRequest) (*ManufacturerOrder, error)
	Delete(ctx context.Context, mfgOrderID string) error
}
