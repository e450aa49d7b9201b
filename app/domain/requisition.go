package domain

import (
	"context"
	"database/sql"
	"time"
)

type RequisitionStatus string

const (
	RequisitionStatusDraft         RequisitionStatus = "draft"
	RequisitionStatusAllocated     RequisitionStatus = "allocated"
	RequisitionStatusPartiallySold RequisitionStatus = "partially_sold"
	RequisitionStatusClosed        RequisitionStatus = "closed"
	RequisitionStatusCancelled     RequisitionStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted out of s.
func (s RequisitionStatus) Terminal() bool {
	return s == RequisitionStatusClosed || s == RequisitionStatusCancelled
}

// Reconcilable reports whether sold/returned counts may still be updated.
func (s RequisitionStatus) Reconcilable() bool {
	return s == RequisitionStatusAllocated || s == RequisitionStatusPartiallySold
}

type Requisition struct {
	ID                     int64             `json:"-"`
	RequisitionID          string            `json:"requisition_id"`
	EventDetails           string            `json:"event_details"`
	RequestedBy            string            `json:"requested_by"`
	Status                 RequisitionStatus `json:"status"`
	TotalQuantityAllocated int64             `json:"total_quantity_allocated"`
	TotalQuantitySold      int64             `json:"total_quantity_sold"`
	Remarks                string            `json:"remarks"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

type RequisitionItem struct {
	ID                int64  `json:"id"`
	RequisitionID     string `json:"requisition_id"`
	ProductID         int64  `json:"product_id"`
	ProductName       string `json:"product_name"`
	QuantityAllocated int64  `json:"quantity_allocated"`
	QuantitySold      int64  `json:"quantity_sold"`
	QuantityReturned  int64  `json:"quantity_returned"`
}

// RequisitionItemDetail joins an item with a snapshot of its product.
type RequisitionItemDetail struct {
	RequisitionItem
	ProductStock int64  `json:"product_stock"`
	ProductPrice int64  `json:"product_price"`
	ProductImage string `json:"product_image"`
}

type RequisitionDetail struct {
	Requisition Requisition             `json:"requisition"`
	Items       []RequisitionItemDetail `json:"items"`
}

type RequisitionItemRequest struct {
	ProductID         int64  `json:"product_id" validate:"required"`
	ProductName       string `json:"product_name"`
	QuantityAllocated int64  `json:"quantity_allocated" validate:"required,gt=0"`
}

type RequisitionCreateRequest struct {
	EventDetails string                   `json:"event_details" validate:"required"`
	RequestedBy  string                   `json:"requested_by"`
	Remarks      string                   `json:"remarks"`
	Items        []RequisitionItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ItemCountUpdate struct {
	ItemID           int64 `json:"item_id" validate:"required"`
	QuantitySold     int64 `json:"quantity_sold" validate:"gte=0"`
	QuantityReturned int64 `json:"quantity_returned" validate:"gte=0"`
}

type UpdateCountsRequest struct {
	Updates []ItemCountUpdate `json:"updates" validate:"required,min=1,dive"`
}

type RequisitionRepository interface {
	Create(ctx context.Context, requisition *Requisition, items []RequisitionItem) error
	GetByRequisitionID(ctx context.Context, requisitionID string) (Requisition, error)
	GetList(ctx context.Context) ([]Requisition, error)
	GetItems(ctx context.Context, requisitionID string) ([]RequisitionItem, error)
	// GetItemsForUpdate locks the item rows for the duration of tx, so
	// concurrent reconciliations of the same requisition serialize before
	// reading the counts they compute deltas from.
	GetItemsForUpdate(ctx context.Context, requisitionID string, tx *sql.Tx) ([]RequisitionItem, error)
	UpdateStatus(ctx context.Context, requisitionID string, status RequisitionStatus, tx *sql.Tx) error
	UpdateItemCounts(ctx context.Context, itemID, sold, returned int64, tx *sql.Tx) error
	UpdateTotalSold(ctx context.Context, requisitionID string, totalSold int64, tx *sql.Tx) error

	WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error
}

type RequisitionUsecase interface {
	Create(ctx context.Context, req RequisitionCreateRequest) (*Requisition, error)
	GetList(ctx context.Context) ([]Requisition, error)
	GetDetail(ctx context.Context, requisitionID string) (*RequisitionDetail, error)
	Allocate(ctx context.Context, requisitionID string) (*Requisition, error)
	UpdateCounts(ctx context.Context, requisitionID string, req UpdateCountsRequest) (*Requisition, error)
	Close(ctx context.Context, requisitionID string) (*Requisition, error)
	Cancel(ctx context.Context, requisitionID string) (*Requisition, error)
}
