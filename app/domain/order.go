package domain

import (
	"context"
	"database/sql"
	"time"
)

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "Placed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// DeliveryStatus is tracked independently from OrderStatus.
type DeliveryStatus string

const (
	DeliveryStatusInProcess   DeliveryStatus = "In Process"
	DeliveryStatusDelivered   DeliveryStatus = "Delivered"
	DeliveryStatusRejected    DeliveryStatus = "Rejected"
	DeliveryStatusNotReceived DeliveryStatus = "Not Received"
)

type Order struct {
	ID             int64          `json:"-"`
	OrderID        string         `json:"order_id"`
	CustomerName   string         `json:"customer_name"`
	Address        string         `json:"address"`
	Total          int64          `json:"total"`
	OrderStatus    OrderStatus    `json:"order_status"`
	DeliveryStatus DeliveryStatus `json:"delivery_status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type OrderItem struct {
	ID          int64  `json:"id"`
	OrderID     string `json:"order_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	Price       int64  `json:"price"`
	Size        string `json:"size,omitempty"`
}

// DeliveryLog is an append-only audit row, one per order line, written exactly
// once when the order first transitions into Delivered.
type DeliveryLog struct {
	ID            int64     `json:"id"`
	OrderID       string    `json:"order_id"`
	ProductName   string    `json:"product_name"`
	Quantity      int64     `json:"quantity"`
	Price         int64     `json:"price"`
	DeliveryAgent string    `json:"delivery_agent"`
	DeliveredAt   time.Time `json:"delivered_at"`
}

type OrderItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	Size      string `json:"size"`
}

type OrderCreateRequest struct {
	CustomerName string             `json:"customer_name" validate:"required"`
	Address      string             `json:"address" validate:"required"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type DeliveryStatusUpdateRequest struct {
	Status        DeliveryStatus `json:"status" validate:"required,oneof='In Process' Delivered Rejected 'Not Received'"`
	DeliveryAgent string         `json:"delivery_agent"`
}

type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order, items []OrderItem) error
	GetByOrderID(ctx context.Context, orderID string) (Order, error)
	GetItems(ctx context.Context, orderID string) ([]OrderItem, error)
	GetList(ctx context.Context) ([]Order, error)
	UpdateStatuses(ctx context.Context, orderID string, orderStatus OrderStatus, deliveryStatus DeliveryStatus, tx *sql.Tx) error

	WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error
}

type DeliveryLogRepository interface {
	Create(ctx context.Context, logs []DeliveryLog, tx *sql.Tx) error
	GetList(ctx context.Context) ([]DeliveryLog, error)
}

type OrderUsecase interface {
	Create(ctx context.Context, req OrderCreateRequest) (*Order, error)
	GetList(ctx context.Context) ([]Order, error)
	GetDetail(ctx context.Context, orderID string) (*OrderDetail, error)
	UpdateDeliveryStatus(ctx context.Context, orderID string, req DeliveryStatusUpdateRequest) (*Order, error)
	GetDeliveryLogs(ctx context.Context) ([]DeliveryLog, error)
}
