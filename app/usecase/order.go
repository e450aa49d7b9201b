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

type orderUsecase struct {
	orderRepo          domain.OrderRepository
	deliveryLogRepo    domain.DeliveryLogRepository
	productRepo        domain.ProductRepository
	stockPublishBroker domain.BrokerPublisher
	cfg                *config.Config
}

func NewOrderUsecase(orderRepo domain.OrderRepository, deliveryLogRepo domain.DeliveryLogRepository, productRepo domain.ProductRepository, stockPublishBroker domain.BrokerPublisher, cfg *config.Config) domain.OrderUsecase {
	return &orderUsecase{orderRepo, deliveryLogRepo, productRepo, stockPublishBroker, cfg}
}

func newOrderID() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixMilli())
}

// Create places the order. Stock is not deducted at placement; the deduction
// happens once, when the order is marked delivered.
func (u *orderUsecase) Create(ctx context.Context, req domain.OrderCreateRequest) (*domain.Order, error) {
	var productIDs []int64
	for _, item := range req.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := u.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		slog.ErrorContext(ctx, "[orderUsecase] Create", "getProducts", err)
		return nil, err
	}

	order := domain.Order{
		OrderID:        newOrderID(),
		CustomerName:   req.CustomerName,
		Address:        req.Address,
		OrderStatus:    domain.OrderStatusPlaced,
		DeliveryStatus: domain.DeliveryStatusInProcess,
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		product, ok := products[itemReq.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, itemReq.ProductID)
		}

		items = append(items, domain.OrderItem{
			OrderID:     order.OrderID,
			ProductID:   itemReq.ProductID,
			ProductName: product.Name,
			Quantity:    itemReq.Quantity,
			Price:       product.Price,
			Size:        itemReq.Size,
		})
		order.Total += product.Price * itemReq.Quantity
	}

	if err := u.orderRepo.Create(ctx, &order, items); err != nil {
		slog.ErrorContext(ctx, "[orderUsecase] Create", "createOrder", err)
		return nil, err
	}

	slog.InfoContext(ctx, "[orderUsecase] Create", "order_id", order.OrderID, "total", order.Total)
	return &order, nil
}

func (u *orderUsecase) GetList(ctx context.Context) ([]domain.Order, error) {
	orders, err := u.orderRepo.GetList(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[orderUsecase] GetList", "getList", err)
		return nil, err
	}

	return orders, nil
}

func (u *orderUsecase) GetDetail(ctx context.Context, orderID string) (*domain.OrderDetail, error) {
	order, err := u.orderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		slog.ErrorContext(ctx, "[orderUsecase] GetDetail", "getOrder", err)
		return nil, err
	}

	items, err := u.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		slog.ErrorContext(ctx, "[orderUsecase] GetDetail", "getItems", err)
		return nil, err
	}

	return &domain.OrderDetail{Order: order, Items: items}, nil
}

// UpdateDeliveryStatus fires the stock deduction and the delivery-log append
// only on the transition edge into Delivered: the guard compares the stored
// previous status, so resubmitting Delivered is a no-op for both.
func (u *orderUsecase) UpdateDeliveryStatus(ctx context.Context, orderID string, req domain.DeliveryStatusUpdateRequest) (*domain.Order, error) {
	order, err := u.orderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		slog.ErrorContext(ctx, "[orderUsecase] UpdateDeliveryStatus", "getOrder", err)
		return nil, err
	}

	previousStatus := order.DeliveryStatus
	orderStatus := order.OrderStatus

	switch {
	case req.Status == domain.DeliveryStatusDelivered && previousStatus != domain.DeliveryStatusDelivered:
		items, err := u.orderRepo.GetItems(ctx, orderID)
		if err != nil {
			slog.ErrorContext(ctx, "[orderUsecase] UpdateDeliveryStatus", "getItems", err)
			return nil, err
		}

		agent := req.DeliveryAgent
		if agent == "" {
			agent = "Not specified"
		}

		orderStatus = domain.OrderStatusDelivered
		var messages []domain.StockMessage

		err = u.orderRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			logs := make([]domain.DeliveryLog, 0, len(items))
			deliveredAt := time.Now().UTC()

			for _, item := range items {
				// Delivery deduction clamps at zero rather than failing.
				stock, err := u.productRepo.AdjustStockClamped(ctx, item.ProductID, -item.Quantity, tx)
				if err != nil {
					slog.ErrorContext(ctx, "[orderUsecase] UpdateDeliveryStatus", "adjustStock", err)
					return err
				}
				messages = append(messages, domain.StockMessage{ProductID: item.ProductID, Stock: stock})

				logs = append(logs, domain.DeliveryLog{
					OrderID:       orderID,
					ProductName:   item.ProductName,
					Quantity:      item.Quantity,
					Price:         item.Price,
					DeliveryAgent: agent,
					DeliveredAt:   deliveredAt,
				})
			}

			if err := u.deliveryLogRepo.Create(ctx, logs, tx); err != nil {
				slog.ErrorContext(ctx, "[orderUsecase] UpdateDeliveryStatus", "createDeliveryLogs", err)
				return err
			}

			if err := u.orderRepo.UpdateStatuses(ctx, orderID, orderStatus, req.Status, tx); err != nil {
				slog.ErrorContext(ctx, "[orderUsecase] UpdateDeliveryStatus", "updateStatuses", err)
				return err
			}

			return nil
		})
		if err != nil {
			slog.ErrorContext(ctx, "[orderUsecase] UpdateDeliveryStatus", "withTransaction", err)
			return nil, err
		}

		for _, msg := range messages {
			if err := u.stockPublishBroker.PublishStockChanged(ctx, msg); err != nil {
				slog.WarnContext(ctx, "[orderUsecase] UpdateDeliveryStatus", "publishStockChanged", err)
			}
		}

	case req.Status == domain.DeliveryStatusRejected || req.Status == domain.DeliveryStatusNotReceived:
		// Items were never deducted, so there is nothing to restore.
		orderStatus = domain.OrderStatusCancelled
		if err := u.orderRepo.UpdateStatuses(ctx, orderID, orderStatus, req.Status, nil); err != nil {
			slog.ErrorContext(ctx, "[orderUsecase] UpdateDeliveryStatus", "updateStatuses", err)
			return nil, err
		}

	default:
		if err := u.orderRepo.UpdateStatuses(ctx, orderID, orderStatus, req.Status, nil); err != nil {
			slog.ErrorContext(ctx, "[orderUsecase] UpdateDeliveryStatus", "updateStatuses", err)
			return nil, err
		}
	}

	order.OrderStatus = orderStatus
	order.DeliveryStatus = req.Status
	slog.InfoContext(ctx, "[orderUsecase] UpdateDeliveryStatus", "order_id", orderID, "delivery_status", req.Status)
	return &order, nil
}

func (u *orderUsecase) GetDeliveryLogs(ctx context.Context) ([]domain.DeliveryLog, error) {
	logs, err := u.deliveryLogRepo.GetList(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[orderUsecase] GetDeliveryLogs", "getList", err)
		return nil, err
	}

	return logs, nil
}
