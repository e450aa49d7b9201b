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

type manufacturerOrderUsecase struct {
	manufacturerRepo   domain.ManufacturerOrderRepository
	productRepo        domain.ProductRepository
	stockPublishBroker domain.BrokerPublisher
	cfg                *config.Config
}

func NewManufacturerOrderUsecase(manufacturerRepo domain.ManufacturerOrderRepository, productRepo domain.ProductRepository, stockPublishBroker domain.BrokerPublisher, cfg *config.Config) domain.ManufacturerOrderUsecase {
	return &manufacturerOrderUsecase{manufacturerRepo, productRepo, stockPublishBroker, cfg}
}

func newMfgOrderID() string {
	return fmt.Sprintf("MFG-%d", time.Now().UnixMilli())
}

func (u *manufacturerOrderUsecase) Create(ctx context.Context, req domain.ManufacturerOrderCreateRequest) (*domain.ManufacturerOrder, error) {
	product, err := u.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderUsecase] Create", "getProduct", err)
		return nil, err
	}

	order := domain.ManufacturerOrder{
		MfgOrderID:   newMfgOrderID(),
		ProductID:    req.ProductID,
		ProductName:  product.Name,
		Manufacturer: req.Manufacturer,
		Quantity:     req.Quantity,
		Status:       domain.ManufacturerOrderStatusOrdered,
	}

	if err := u.manufacturerRepo.Create(ctx, &order); err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderUsecase] Create", "createOrder", err)
		return nil, err
	}

	slog.InfoContext(ctx, "[manufacturerOrderUsecase] Create", "mfg_order_id", order.MfgOrderID)
	return &order, nil
}

func (u *manufacturerOrderUsecase) GetList(ctx context.Context) ([]domain.ManufacturerOrder, error) {
	orders, err := u.manufacturerRepo.GetList(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderUsecase] GetList", "getList", err)
		return nil, err
	}

	return orders, nil
}

// UpdateStatus credits stock exactly once, on the transition edge into
// Received. Any other status change is a plain update with no stock effect.
func (u *manufacturerOrderUsecase) UpdateStatus(ctx context.Context, mfgOrderID string, req domain.ManufacturerOrderStatusRequest) (*domain.ManufacturerOrder, error) {
	order, err := u.manufacturerRepo.GetByMfgOrderID(ctx, mfgOrderID)
	if err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderUsecase] UpdateStatus", "getOrder", err)
		return nil, err
	}

	if order.Status == req.Status {
		slog.InfoContext(ctx, "[manufacturerOrderUsecase] UpdateStatus", "noChange", nil)
		return &order, nil
	}

	if req.Status == domain.ManufacturerOrderStatusReceived {
		var message domain.StockMessage

		err = u.manufacturerRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			if _, err := u.productRepo.LockForUpdate(ctx, order.ProductID, tx); err != nil {
				slog.ErrorContext(ctx, "[manufacturerOrderUsecase] UpdateStatus", "lockProduct", err)
				return err
			}

			stock, err := u.productRepo.AdjustStock(ctx, order.ProductID, order.Quantity, tx)
			if err != nil {
				slog.ErrorContext(ctx, "[manufacturerOrderUsecase] UpdateStatus", "adjustStock", err)
				return err
			}
			message = domain.StockMessage{ProductID: order.ProductID, Stock: stock}

			if err := u.manufacturerRepo.UpdateStatus(ctx, mfgOrderID, req.Status, tx); err != nil {
				slog.ErrorContext(ctx, "[manufacturerOrderUsecase] UpdateStatus", "updateStatus", err)
				return err
			}

			return nil
		})
		if err != nil {
			slog.ErrorContext(ctx, "[manufacturerOrderUsecase] UpdateStatus", "withTransaction", err)
			return nil, err
		}

		if err := u.stockPublishBroker.PublishStockChanged(ctx, message); err != nil {
			slog.WarnContext(ctx, "[manufacturerOrderUsecase] UpdateStatus", "publishStockChanged", err)
		}
	} else {
		if err := u.manufacturerRepo.UpdateStatus(ctx, mfgOrderID, req.Status, nil); err != nil {
			slog.ErrorContext(ctx, "[manufacturerOrderUsecase] UpdateStatus", "updateStatus", err)
			return nil, err
		}
	}

	order.Status = req.Status
	slog.InfoContext(ctx, "[manufacturerOrderUsecase] UpdateStatus", "mfg_order_id", mfgOrderID, "status", req.Status)
	return &order, nil
}

func (u *manufacturerOrderUsecase) Delete(ctx context.Context, mfgOrderID string) error {
	if err := u.manufacturerRepo.Delete(ctx, mfgOrderID); err != nil {
		slog.ErrorContext(ctx, "[manufacturerOrderUsecase] Delete", "delete", err)
		return err
	}

	slog.InfoContext(ctx, "[manufacturerOrderUsecase] Delete", "mfg_order_id", mfgOrderID)
	return nil
}
