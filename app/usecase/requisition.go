package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"storefront-service/app/domain"
	"storefront-service/config"
)

type requisitionUsecase struct {
	requisitionRepo    domain.RequisitionRepository
	productRepo        domain.ProductRepository
	stockPublishBroker domain.BrokerPublisher
	cfg                *config.Config
}

func NewRequisitionUsecase(requisitionRepo domain.RequisitionRepository, productRepo domain.ProductRepository, stockPublishBroker domain.BrokerPublisher, cfg *config.Config) domain.RequisitionUsecase {
	return &requisitionUsecase{requisitionRepo, productRepo, stockPublishBroker, cfg}
}

func newRequisitionID() string {
	return fmt.Sprintf("REQ-%d", time.Now().UnixMilli())
}

func (u *requisitionUsecase) Create(ctx context.Context, req domain.RequisitionCreateRequest) (*domain.Requisition, error) {
	products, err := u.productRepo.GetByIDs(ctx, itemProductIDs(req.Items))
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] Create", "getProducts", err)
		return nil, err
	}

	requisition := domain.Requisition{
		RequisitionID: newRequisitionID(),
		EventDetails:  req.EventDetails,
		RequestedBy:   req.RequestedBy,
		Remarks:       req.Remarks,
		Status:        domain.RequisitionStatusDraft,
	}

	items := make([]domain.RequisitionItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		product, ok := products[itemReq.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, itemReq.ProductID)
		}

		// The name snapshot outlives later product renames.
		name := itemReq.ProductName
		if name == "" {
			name = product.Name
		}

		items = append(items, domain.RequisitionItem{
			RequisitionID:     requisition.RequisitionID,
			ProductID:         itemReq.ProductID,
			ProductName:       name,
			QuantityAllocated: itemReq.QuantityAllocated,
		})
		requisition.TotalQuantityAllocated += itemReq.QuantityAllocated
	}

	if err := u.requisitionRepo.Create(ctx, &requisition, items); err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] Create", "createRequisition", err)
		return nil, err
	}

	slog.InfoContext(ctx, "[requisitionUsecase] Create", "requisition_id", requisition.RequisitionID)
	return &requisition, nil
}

func (u *requisitionUsecase) GetList(ctx context.Context) ([]domain.Requisition, error) {
	requisitions, err := u.requisitionRepo.GetList(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] GetList", "getList", err)
		return nil, err
	}

	return requisitions, nil
}

func (u *requisitionUsecase) GetDetail(ctx context.Context, requisitionID string) (*domain.RequisitionDetail, error) {
	requisition, err := u.requisitionRepo.GetByRequisitionID(ctx, requisitionID)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] GetDetail", "getRequisition", err)
		return nil, err
	}

	items, err := u.requisitionRepo.GetItems(ctx, requisitionID)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] GetDetail", "getItems", err)
		return nil, err
	}

	var productIDs []int64
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := u.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] GetDetail", "getProducts", err)
		return nil, err
	}

	detail := domain.RequisitionDetail{Requisition: requisition}
	for _, item := range items {
		itemDetail := domain.RequisitionItemDetail{RequisitionItem: item}
		if product, ok := products[item.ProductID]; ok {
			itemDetail.ProductStock = product.Stock
			itemDetail.ProductPrice = product.Price
			itemDetail.ProductImage = product.Image
		}
		detail.Items = append(detail.Items, itemDetail)
	}

	return &detail, nil
}

// Allocate is a reservation check, not a deduction: every item's allocation is
// validated against current stock before anything is written, and on success
// only the status changes. Stock is deducted later as sales are confirmed
// through UpdateCounts.
func (u *requisitionUsecase) Allocate(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	requisition, err := u.requisitionRepo.GetByRequisitionID(ctx, requisitionID)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] Allocate", "getRequisition", err)
		return nil, err
	}

	if requisition.Status != domain.RequisitionStatusDraft {
		return nil, fmt.Errorf("%w: only draft requisitions can be allocated, status is %s", domain.ErrInvalidTransition, requisition.Status)
	}

	items, err := u.requisitionRepo.GetItems(ctx, requisitionID)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] Allocate", "getItems", err)
		return nil, err
	}

	products, err := u.productRepo.GetByIDs(ctx, itemIDsToProductIDs(items))
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] Allocate", "getProducts", err)
		return nil, err
	}

	// All items validated before any write; one shortfall fails the whole
	// allocation.
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, item.ProductID)
		}
		if product.Stock < item.QuantityAllocated {
			return nil, fmt.Errorf("%w: insufficient stock for %s: available %d, requested %d",
				domain.ErrValidation, product.Name, product.Stock, item.QuantityAllocated)
		}
	}

	if err := u.requisitionRepo.UpdateStatus(ctx, requisitionID, domain.RequisitionStatusAllocated, nil); err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] Allocate", "updateStatus", err)
		return nil, err
	}

	requisition.Status = domain.RequisitionStatusAllocated
	slog.InfoContext(ctx, "[requisitionUsecase] Allocate", "requisition_id", requisitionID)
	return &requisition, nil
}

// UpdateCounts applies a batch of sold/returned reconciliations. Deltas are
// computed from the persisted counts, never from client-submitted absolutes,
// so a resubmitted batch cannot double-deduct. The item rows are locked and
// re-read inside the transaction before the deltas are derived: a concurrent
// reconciliation of the same requisition serializes at the item locks and
// sees the other's committed counts. Every update is validated before any
// write, then all stock adjustments and count updates commit together.
func (u *requisitionUsecase) UpdateCounts(ctx context.Context, requisitionID string, req domain.UpdateCountsRequest) (*domain.Requisition, error) {
	requisition, err := u.requisitionRepo.GetByRequisitionID(ctx, requisitionID)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] UpdateCounts", "getRequisition", err)
		return nil, err
	}

	if !requisition.Status.Reconcilable() {
		return nil, fmt.Errorf("%w: cannot update counts on a %s requisition", domain.ErrInvalidTransition, requisition.Status)
	}

	var messages []domain.StockMessage
	totalSold := requisition.TotalQuantitySold

	err = u.requisitionRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		items, err := u.requisitionRepo.GetItemsForUpdate(ctx, requisitionID, tx)
		if err != nil {
			slog.ErrorContext(ctx, "[requisitionUsecase] UpdateCounts", "getItemsForUpdate", err)
			return err
		}

		itemsByID := make(map[int64]domain.RequisitionItem, len(items))
		for _, item := range items {
			itemsByID[item.ID] = item
		}

		for _, update := range req.Updates {
			item, ok := itemsByID[update.ItemID]
			if !ok {
				return fmt.Errorf("%w: requisition item %d", domain.ErrNotFound, update.ItemID)
			}
			if update.QuantitySold+update.QuantityReturned > item.QuantityAllocated {
				return fmt.Errorf("%w: invalid counts for %s: sold (%d) + returned (%d) exceeds allocated (%d)",
					domain.ErrValidation, item.ProductName, update.QuantitySold, update.QuantityReturned, item.QuantityAllocated)
			}
		}

		for _, update := range req.Updates {
			item := itemsByID[update.ItemID]

			// Selling more deducts live stock; correcting sold downward
			// credits it back.
			soldDelta := update.QuantitySold - item.QuantitySold
			if soldDelta != 0 {
				if _, err := u.productRepo.LockForUpdate(ctx, item.ProductID, tx); err != nil {
					slog.ErrorContext(ctx, "[requisitionUsecase] UpdateCounts", "lockProduct", err)
					return err
				}
				stock, err := u.productRepo.AdjustStock(ctx, item.ProductID, -soldDelta, tx)
				if err != nil {
					slog.ErrorContext(ctx, "[requisitionUsecase] UpdateCounts", "adjustStock", err)
					return err
				}
				messages = append(messages, domain.StockMessage{ProductID: item.ProductID, Stock: stock})
			}

			if err := u.requisitionRepo.UpdateItemCounts(ctx, item.ID, update.QuantitySold, update.QuantityReturned, tx); err != nil {
				slog.ErrorContext(ctx, "[requisitionUsecase] UpdateCounts", "updateItemCounts", err)
				return err
			}

			item.QuantitySold = update.QuantitySold
			item.QuantityReturned = update.QuantityReturned
			itemsByID[item.ID] = item
		}

		// Recompute the denormalized total from the items instead of
		// hand-incrementing it.
		totalSold = 0
		for _, item := range itemsByID {
			totalSold += item.QuantitySold
		}

		if err := u.requisitionRepo.UpdateTotalSold(ctx, requisitionID, totalSold, tx); err != nil {
			slog.ErrorContext(ctx, "[requisitionUsecase] UpdateCounts", "updateTotalSold", err)
			return err
		}

		if requisition.Status == domain.RequisitionStatusAllocated && totalSold > 0 {
			if err := u.requisitionRepo.UpdateStatus(ctx, requisitionID, domain.RequisitionStatusPartiallySold, tx); err != nil {
				slog.ErrorContext(ctx, "[requisitionUsecase] UpdateCounts", "updateStatus", err)
				return err
			}
			requisition.Status = domain.RequisitionStatusPartiallySold
		}

		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] UpdateCounts", "withTransaction", err)
		return nil, err
	}

	for _, msg := range messages {
		if err := u.stockPublishBroker.PublishStockChanged(ctx, msg); err != nil {
			slog.WarnContext(ctx, "[requisitionUsecase] UpdateCounts", "publishStockChanged", err)
		}
	}

	requisition.TotalQuantitySold = totalSold
	slog.InfoContext(ctx, "[requisitionUsecase] UpdateCounts", "requisition_id", requisitionID, "total_sold", totalSold)
	return &requisition, nil
}

// Close freezes the requisition. Allocated-but-unreconciled units are not
// credited back to stock: allocation never deducted anything, so there is
// nothing to restore.
func (u *requisitionUsecase) Close(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	requisition, err := u.requisitionRepo.GetByRequisitionID(ctx, requisitionID)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] Close", "getRequisition", err)
		return nil, err
	}

	if !requisition.Status.Reconcilable() {
		return nil, fmt.Errorf("%w: cannot close a %s requisition", domain.ErrInvalidTransition, requisition.Status)
	}

	if err := u.requisitionRepo.UpdateStatus(ctx, requisitionID, domain.RequisitionStatusClosed, nil); err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] Close", "updateStatus", err)
		return nil, err
	}

	requisition.Status = domain.RequisitionStatusClosed
	slog.InfoContext(ctx, "[requisitionUsecase] Close", "requisition_id", requisitionID)
	return &requisition, nil
}

// Cancel is the administrative override: valid from any non-terminal state,
// no stock side effect.
func (u *requisitionUsecase) Cancel(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	requisition, err := u.requisitionRepo.GetByRequisitionID(ctx, requisitionID)
	if err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] Cancel", "getRequisition", err)
		return nil, err
	}

	if requisition.Status.Terminal() {
		return nil, fmt.Errorf("%w: cannot cancel a %s requisition", domain.ErrInvalidTransition, requisition.Status)
	}

	if err := u.requisitionRepo.UpdateStatus(ctx, requisitionID, domain.RequisitionStatusCancelled, nil); err != nil {
		slog.ErrorContext(ctx, "[requisitionUsecase] Cancel", "updateStatus", err)
		return nil, err
	}

	requisition.Status = domain.RequisitionStatusCancelled
	slog.InfoContext(ctx, "[requisitionUsecase] Cancel", "requisition_id", requisitionID)
	return &requisition, nil
}

func itemProductIDs(items []domain.RequisitionItemRequest) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func itemIDsToProductIDs(items []domain.RequisitionItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
