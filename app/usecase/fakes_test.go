package usecase

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/app/domain"
)

// In-memory repository fakes. Transactions degrade to plain calls with a nil
// *sql.Tx, which every fake ignores.

type fakeProductRepo struct {
	products map[int64]domain.Product
	nextID   int64
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[int64]domain.Product), nextID: 1}
	for _, p := range products {
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	product.ID = r.nextID
	r.nextID++
	product.Active = true
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	out := make(map[int64]domain.Product)
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			out[id] = product
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetList(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, product := range r.products {
		if product.Active {
			out = append(out, product)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	stored, ok := r.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stock := stored.Stock
	stored = *product
	stored.Stock = stock
	r.products[product.ID] = stored
	return nil
}

func (r *fakeProductRepo) SoftDelete(_ context.Context, id int64) error {
	product, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	product.Stock = 0
	product.Active = false
	r.products[id] = product
	return nil
}

func (r *fakeProductRepo) LockForUpdate(_ context.Context, id int64, _ *sql.Tx) (domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) AdjustStock(_ context.Context, id, delta int64, _ *sql.Tx) (int64, error) {
	product, ok := r.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if product.Stock+delta < 0 {
		return 0, fmt.Errorf("%w: insufficient stock for product %d", domain.ErrValidation, id)
	}
	product.Stock += delta
	r.products[id] = product
	return product.Stock, nil
}

func (r *fakeProductRepo) AdjustStockClamped(_ context.Context, id, delta int64, _ *sql.Tx) (int64, error) {
	product, ok := r.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	product.Stock += delta
	if product.Stock < 0 {
		product.Stock = 0
	}
	r.products[id] = product
	return product.Stock, nil
}

func (r *fakeProductRepo) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return fn(ctx, nil)
}

func (r *fakeProductRepo) stock(id int64) int64 {
	return r.products[id].Stock
}

type fakeRequisitionRepo struct {
	requisitions map[string]domain.Requisition
	items        map[string][]domain.RequisitionItem
	nextItemID   int64
}

func newFakeRequisitionRepo() *fakeRequisitionRepo {
	return &fakeRequisitionRepo{
		requisitions: make(map[string]domain.Requisition),
		items:        make(map[string][]domain.RequisitionItem),
		nextItemID:   1,
	}
}

func (r *fakeRequisitionRepo) Create(_ context.Context, requisition *domain.Requisition, items []domain.RequisitionItem) error {
	r.requisitions[requisition.RequisitionID] = *requisition
	for i := range items {
		items[i].ID = r.nextItemID
		r.nextItemID++
	}
	r.items[requisition.RequisitionID] = items
	return nil
}

func (r *fakeRequisitionRepo) GetByRequisitionID(_ context.Context, requisitionID string) (domain.Requisition, error) {
	requisition, ok := r.requisitions[requisitionID]
	if !ok {
		return domain.Requisition{}, domain.ErrNotFound
	}
	return requisition, nil
}

func (r *fakeRequisitionRepo) GetList(_ context.Context) ([]domain.Requisition, error) {
	var out []domain.Requisition
	for _, requisition := range r.requisitions {
		out = append(out, requisition)
	}
	return out, nil
}

func (r *fakeRequisitionRepo) GetItems(_ context.Context, requisitionID string) ([]domain.RequisitionItem, error) {
	items := make([]domain.RequisitionItem, len(r.items[requisitionID]))
	copy(items, r.items[requisitionID])
	return items, nil
}

func (r *fakeRequisitionRepo) GetItemsForUpdate(ctx context.Context, requisitionID string, _ *sql.Tx) ([]domain.RequisitionItem, error) {
	return r.GetItems(ctx, requisitionID)
}

func (r *fakeRequisitionRepo) UpdateStatus(_ context.Context, requisitionID string, status domain.RequisitionStatus, _ *sql.Tx) error {
	requisition, ok := r.requisitions[requisitionID]
	if !ok {
		return domain.ErrNotFound
	}
	requisition.Status = status
	r.requisitions[requisitionID] = requisition
	return nil
}

func (r *fakeRequisitionRepo) UpdateItemCounts(_ context.Context, itemID, sold, returned int64, _ *sql.Tx) error {
	for reqID, items := range r.items {
		for i, item := range items {
			if item.ID == itemID {
				items[i].QuantitySold = sold
				items[i].QuantityReturned = returned
				r.items[reqID] = items
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRequisitionRepo) UpdateTotalSold(_ context.Context, requisitionID string, totalSold int64, _ *sql.Tx) error {
	requisition, ok := r.requisitions[requisitionID]
	if !ok {
		return domain.ErrNotFound
	}
	requisition.TotalQuantitySold = totalSold
	r.requisitions[requisitionID] = requisition
	return nil
}

func (r *fakeRequisitionRepo) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return fn(ctx, nil)
}

type fakeOrderRepo struct {
	orders map[string]domain.Order
	items  map[string][]domain.OrderItem
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[string]domain.Order),
		items:  make(map[string][]domain.OrderItem),
	}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order, items []domain.OrderItem) error {
	r.orders[order.OrderID] = *order
	r.items[order.OrderID] = items
	return nil
}

func (r *fakeOrderRepo) GetByOrderID(_ context.Context, orderID string) (domain.Order, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) GetItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	return r.items[orderID], nil
}

func (r *fakeOrderRepo) GetList(_ context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range r.orders {
		out = append(out, order)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatuses(_ context.Context, orderID string, orderStatus domain.OrderStatus, deliveryStatus domain.DeliveryStatus, _ *sql.Tx) error {
	order, ok := r.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	order.OrderStatus = orderStatus
	order.DeliveryStatus = deliveryStatus
	r.orders[orderID] = order
	return nil
}

func (r *fakeOrderRepo) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return fn(ctx, nil)
}

type fakeDeliveryLogRepo struct {
	logs []domain.DeliveryLog
}

func (r *fakeDeliveryLogRepo) Create(_ context.Context, logs []domain.DeliveryLog, _ *sql.Tx) error {
	r.logs = append(r.logs, logs...)
	return nil
}

func (r *fakeDeliveryLogRepo) GetList(_ context.Context) ([]domain.DeliveryLog, error) {
	return r.logs, nil
}

type fakeManufacturerRepo struct {
	orders map[string]domain.ManufacturerOrder
}

func newFakeManufacturerRepo() *fakeManufacturerRepo {
	return &fakeManufacturerRepo{orders: make(map[string]domain.ManufacturerOrder)}
}

func (r *fakeManufacturerRepo) Create(_ context.Context, order *domain.ManufacturerOrder) error {
	r.orders[order.MfgOrderID] = *order
	return nil
}

func (r *fakeManufacturerRepo) GetByMfgOrderID(_ context.Context, mfgOrderID string) (domain.ManufacturerOrder, error) {
	order, ok := r.orders[mfgOrderID]
	if !ok {
		return domain.ManufacturerOrder{}, domain.ErrNotFound
	}
	return order, nil
}

func (r *fakeManufacturerRepo) GetList(_ context.Context) ([]domain.ManufacturerOrder, error) {
	var out []domain.ManufacturerOrder
	for _, order := range r.orders {
		out = append(out, order)
	}
	return out, nil
}

func (r *fakeManufacturerRepo) UpdateStatus(_ context.Context, mfgOrderID string, status domain.ManufacturerOrderStatus, _ *sql.Tx) error {
	order, ok := r.orders[mfgOrderID]
	if !ok {
		return domain.ErrNotFound
	}
	order.Status = status
	r.orders[mfgOrderID] = order
	return nil
}

func (r *fakeManufacturerRepo) Delete(_ context.Context, mfgOrderID string) error {
	if _, ok := r.orders[mfgOrderID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.orders, mfgOrderID)
	return nil
}

func (r *fakeManufacturerRepo) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return fn(ctx, nil)
}

type fakeBroker struct {
	messages []domain.StockMessage
}

func (b *fakeBroker) PublishStockChanged(_ context.Context, data domain.StockMessage) error {
	b.messages = append(b.messages, data)
	return nil
}
