package usecase

import (
	"context"
	"database/sql"
	"testing"

	"storefront-service/app/domain"
	"storefront-service/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequisitionUsecase(products ...domain.Product) (domain.RequisitionUsecase, *fakeRequisitionRepo, *fakeProductRepo, *fakeBroker) {
	requisitionRepo := newFakeRequisitionRepo()
	productRepo := newFakeProductRepo(products...)
	publisher := &fakeBroker{}
	u := NewRequisitionUsecase(requisitionRepo, productRepo, publisher, &config.Config{})
	return u, requisitionRepo, productRepo, publisher
}

func createDraft(t *testing.T, u domain.RequisitionUsecase, items ...domain.RequisitionItemRequest) *domain.Requisition {
	t.Helper()
	requisition, err := u.Create(context.Background(), domain.RequisitionCreateRequest{
		EventDetails: "campus sales event",
		RequestedBy:  "admin",
		Items:        items,
	})
	require.NoError(t, err)
	return requisition
}

func TestRequisitionCreate(t *testing.T) {
	u, repo, _, _ := newTestRequisitionUsecase(
		domain.Product{ID: 1, Name: "Mug", Stock: 100, Price: 150},
		domain.Product{ID: 2, Name: "Pen", Stock: 200, Price: 80},
	)
	ctx := context.Background()

	requisition := createDraft(t, u,
		domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 20},
		domain.RequisitionItemRequest{ProductID: 2, QuantityAllocated: 30},
	)

	assert.Equal(t, domain.RequisitionStatusDraft, requisition.Status)
	assert.Equal(t, int64(50), requisition.TotalQuantityAllocated)
	assert.Equal(t, int64(0), requisition.TotalQuantitySold)

	items, err := repo.GetItems(ctx, requisition.RequisitionID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Mug", items[0].ProductName)
	assert.Equal(t, int64(0), items[0].QuantitySold)
	assert.Equal(t, int64(0), items[0].QuantityReturned)
}

func TestRequisitionCreate_TotalsMatchItems(t *testing.T) {
	u, repo, _, _ := newTestRequisitionUsecase(
		domain.Product{ID: 1, Name: "Mug", Stock: 100},
		domain.Product{ID: 2, Name: "Pen", Stock: 100},
		domain.Product{ID: 3, Name: "Bottle", Stock: 100},
	)
	ctx := context.Background()

	requisition := createDraft(t, u,
		domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 7},
		domain.RequisitionItemRequest{ProductID: 2, QuantityAllocated: 11},
		domain.RequisitionItemRequest{ProductID: 3, QuantityAllocated: 13},
	)

	items, err := repo.GetItems(ctx, requisition.RequisitionID)
	require.NoError(t, err)

	var sum int64
	for _, item := range items {
		sum += item.QuantityAllocated
	}
	assert.Equal(t, requisition.TotalQuantityAllocated, sum)
}

func TestRequisitionCreate_UnknownProduct(t *testing.T) {
	u, _, _, _ := newTestRequisitionUsecase()
	ctx := context.Background()

	_, err := u.Create(ctx, domain.RequisitionCreateRequest{
		EventDetails: "event",
		Items:        []domain.RequisitionItemRequest{{ProductID: 99, QuantityAllocated: 1}},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAllocate(t *testing.T) {
	u, _, products, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 20})

	allocated, err := u.Allocate(ctx, requisition.RequisitionID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequisitionStatusAllocated, allocated.Status)

	// Allocation is a reservation check only, stock is untouched.
	assert.Equal(t, int64(50), products.stock(1))
}

func TestAllocate_InsufficientStock(t *testing.T) {
	u, repo, products, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 5})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 10})

	_, err := u.Allocate(ctx, requisition.RequisitionID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "Mug")
	assert.Contains(t, err.Error(), "available 5")
	assert.Contains(t, err.Error(), "requested 10")

	stored, err := repo.GetByRequisitionID(ctx, requisition.RequisitionID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequisitionStatusDraft, stored.Status)
	assert.Equal(t, int64(5), products.stock(1))
}

func TestAllocate_OneShortfallFailsWholeBatch(t *testing.T) {
	u, repo, _, _ := newTestRequisitionUsecase(
		domain.Product{ID: 1, Name: "Mug", Stock: 100},
		domain.Product{ID: 2, Name: "Pen", Stock: 3},
	)
	ctx := context.Background()

	requisition := createDraft(t, u,
		domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 10},
		domain.RequisitionItemRequest{ProductID: 2, QuantityAllocated: 10},
	)

	_, err := u.Allocate(ctx, requisition.RequisitionID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := repo.GetByRequisitionID(ctx, requisition.RequisitionID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequisitionStatusDraft, stored.Status)
}

func TestAllocate_NonDraft(t *testing.T) {
	u, _, _, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 20})
	_, err := u.Allocate(ctx, requisition.RequisitionID)
	require.NoError(t, err)

	_, err = u.Allocate(ctx, requisition.RequisitionID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateCounts_FullLifecycle(t *testing.T) {
	u, repo, products, publisher := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 20})
	_, err := u.Allocate(ctx, requisition.RequisitionID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), products.stock(1))

	items, err := repo.GetItems(ctx, requisition.RequisitionID)
	require.NoError(t, err)

	updated, err := u.UpdateCounts(ctx, requisition.RequisitionID, domain.UpdateCountsRequest{
		Updates: []domain.ItemCountUpdate{{ItemID: items[0].ID, QuantitySold: 15, QuantityReturned: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(35), products.stock(1))
	assert.Equal(t, domain.RequisitionStatusPartiallySold, updated.Status)
	assert.Equal(t, int64(15), updated.TotalQuantitySold)
	require.Len(t, publisher.messages, 1)
	assert.Equal(t, int64(35), publisher.messages[0].Stock)

	closed, err := u.Close(ctx, requisition.RequisitionID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequisitionStatusClosed, closed.Status)
	assert.Equal(t, int64(35), products.stock(1))
}

func TestUpdateCounts_SoldPlusReturnedExceedsAllocated(t *testing.T) {
	u, repo, products, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 10})
	_, err := u.Allocate(ctx, requisition.RequisitionID)
	require.NoError(t, err)

	items, _ := repo.GetItems(ctx, requisition.RequisitionID)

	_, err = u.UpdateCounts(ctx, requisition.RequisitionID, domain.UpdateCountsRequest{
		Updates: []domain.ItemCountUpdate{{ItemID: items[0].ID, QuantitySold: 8, QuantityReturned: 4}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "Mug")

	assert.Equal(t, int64(50), products.stock(1))
	stored, _ := repo.GetItems(ctx, requisition.RequisitionID)
	assert.Equal(t, int64(0), stored[0].QuantitySold)
}

func TestUpdateCounts_AllValidatedBeforeAnyWrite(t *testing.T) {
	u, repo, products, _ := newTestRequisitionUsecase(
		domain.Product{ID: 1, Name: "Mug", Stock: 50},
		domain.Product{ID: 2, Name: "Pen", Stock: 50},
	)
	ctx := context.Background()

	requisition := createDraft(t, u,
		domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 10},
		domain.RequisitionItemRequest{ProductID: 2, QuantityAllocated: 10},
	)
	_, err := u.Allocate(ctx, requisition.RequisitionID)
	require.NoError(t, err)

	items, _ := repo.GetItems(ctx, requisition.RequisitionID)

	// Second update is invalid; the valid first update must not be applied.
	_, err = u.UpdateCounts(ctx, requisition.RequisitionID, domain.UpdateCountsRequest{
		Updates: []domain.ItemCountUpdate{
			{ItemID: items[0].ID, QuantitySold: 5, QuantityReturned: 0},
			{ItemID: items[1].ID, QuantitySold: 20, QuantityReturned: 0},
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, int64(50), products.stock(1))
	assert.Equal(t, int64(50), products.stock(2))
	stored, _ := repo.GetItems(ctx, requisition.RequisitionID)
	assert.Equal(t, int64(0), stored[0].QuantitySold)
}

func TestUpdateCounts_DownwardCorrectionCreditsStock(t *testing.T) {
	u, repo, products, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 20})
	_, err := u.Allocate(ctx, requisition.RequisitionID)
	require.NoError(t, err)

	items, _ := repo.GetItems(ctx, requisition.RequisitionID)

	_, err = u.UpdateCounts(ctx, requisition.RequisitionID, domain.UpdateCountsRequest{
		Updates: []domain.ItemCountUpdate{{ItemID: items[0].ID, QuantitySold: 15, QuantityReturned: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(35), products.stock(1))

	// Correcting sold 15 -> 10 credits 5 back.
	updated, err := u.UpdateCounts(ctx, requisition.RequisitionID, domain.UpdateCountsRequest{
		Updates: []domain.ItemCountUpdate{{ItemID: items[0].ID, QuantitySold: 10, QuantityReturned: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(40), products.stock(1))
	assert.Equal(t, int64(10), updated.TotalQuantitySold)
}

// contendedRequisitionRepo lets a competing reconciliation commit right as the
// caller enters its transaction, before the locked item re-read.
type contendedRequisitionRepo struct {
	*fakeRequisitionRepo
	products      *fakeProductRepo
	requisitionID string
	itemID        int64
	productID     int64
	sold          int64
	applied       bool
}

func (r *contendedRequisitionRepo) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	if !r.applied {
		r.applied = true
		if err := r.fakeRequisitionRepo.UpdateItemCounts(ctx, r.itemID, r.sold, 0, nil); err != nil {
			return err
		}
		if err := r.fakeRequisitionRepo.UpdateTotalSold(ctx, r.requisitionID, r.sold, nil); err != nil {
			return err
		}
		if _, err := r.products.AdjustStock(ctx, r.productID, -r.sold, nil); err != nil {
			return err
		}
	}
	return fn(ctx, nil)
}

func TestUpdateCounts_DeltaFromCountsUnderLock(t *testing.T) {
	requisitionRepo := newFakeRequisitionRepo()
	productRepo := newFakeProductRepo(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	publisher := &fakeBroker{}
	u := NewRequisitionUsecase(requisitionRepo, productRepo, publisher, &config.Config{})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 20})
	_, err := u.Allocate(ctx, requisition.RequisitionID)
	require.NoError(t, err)

	items, err := requisitionRepo.GetItems(ctx, requisition.RequisitionID)
	require.NoError(t, err)

	contended := &contendedRequisitionRepo{
		fakeRequisitionRepo: requisitionRepo,
		products:            productRepo,
		requisitionID:       requisition.RequisitionID,
		itemID:              items[0].ID,
		productID:           1,
		sold:                15,
	}
	u2 := NewRequisitionUsecase(contended, productRepo, publisher, &config.Config{})

	// Two writers submit sold=15 for the same item; the competing one commits
	// first. The delta must come from the counts visible under the item lock,
	// so the second writer applies nothing on top of the committed 15.
	updated, err := u2.UpdateCounts(ctx, requisition.RequisitionID, domain.UpdateCountsRequest{
		Updates: []domain.ItemCountUpdate{{ItemID: items[0].ID, QuantitySold: 15}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(35), productRepo.stock(1))
	assert.Equal(t, int64(15), updated.TotalQuantitySold)

	stored, err := requisitionRepo.GetItems(ctx, requisition.RequisitionID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), stored[0].QuantitySold)
}

func TestUpdateCounts_ResubmissionIsNoOp(t *testing.T) {
	u, repo, products, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 20})
	_, err := u.Allocate(ctx, requisition.RequisitionID)
	require.NoError(t, err)

	items, _ := repo.GetItems(ctx, requisition.RequisitionID)
	req := domain.UpdateCountsRequest{
		Updates: []domain.ItemCountUpdate{{ItemID: items[0].ID, QuantitySold: 12, QuantityReturned: 3}},
	}

	_, err = u.UpdateCounts(ctx, requisition.RequisitionID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(38), products.stock(1))

	// Same absolutes again: server-computed delta is zero, no double deduction.
	_, err = u.UpdateCounts(ctx, requisition.RequisitionID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(38), products.stock(1))
}

func TestUpdateCounts_DraftRejected(t *testing.T) {
	u, repo, _, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 5})
	items, _ := repo.GetItems(ctx, requisition.RequisitionID)

	_, err := u.UpdateCounts(ctx, requisition.RequisitionID, domain.UpdateCountsRequest{
		Updates: []domain.ItemCountUpdate{{ItemID: items[0].ID, QuantitySold: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateCounts_ClosedRejected(t *testing.T) {
	u, repo, _, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 5})
	_, err := u.Allocate(ctx, requisition.RequisitionID)
	require.NoError(t, err)
	_, err = u.Close(ctx, requisition.RequisitionID)
	require.NoError(t, err)

	items, _ := repo.GetItems(ctx, requisition.RequisitionID)
	_, err = u.UpdateCounts(ctx, requisition.RequisitionID, domain.UpdateCountsRequest{
		Updates: []domain.ItemCountUpdate{{ItemID: items[0].ID, QuantitySold: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateCounts_UnknownItem(t *testing.T) {
	u, _, _, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 5})
	_, err := u.Allocate(ctx, requisition.RequisitionID)
	require.NoError(t, err)

	_, err = u.UpdateCounts(ctx, requisition.RequisitionID, domain.UpdateCountsRequest{
		Updates: []domain.ItemCountUpdate{{ItemID: 999, QuantitySold: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClose_FromDraftRejected(t *testing.T) {
	u, _, _, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 5})

	_, err := u.Close(ctx, requisition.RequisitionID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel(t *testing.T) {
	u, _, _, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 5})

	cancelled, err := u.Cancel(ctx, requisition.RequisitionID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequisitionStatusCancelled, cancelled.Status)

	// Terminal: neither cancel nor close may leave it.
	_, err = u.Cancel(ctx, requisition.RequisitionID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = u.Close(ctx, requisition.RequisitionID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGetDetail(t *testing.T) {
	u, _, _, _ := newTestRequisitionUsecase(domain.Product{ID: 1, Name: "Mug", Stock: 50, Price: 150, Image: "/mug.jpg"})
	ctx := context.Background()

	requisition := createDraft(t, u, domain.RequisitionItemRequest{ProductID: 1, QuantityAllocated: 5})

	detail, err := u.GetDetail(ctx, requisition.RequisitionID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, int64(50), detail.Items[0].ProductStock)
	assert.Equal(t, int64(150), detail.Items[0].ProductPrice)
	assert.Equal(t, "/mug.jpg", detail.Items[0].ProductImage)
}

func TestGetDetail_NotFound(t *testing.T) {
	u, _, _, _ := newTestRequisitionUsecase()

	_, err := u.GetDetail(context.Background(), "REQ-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
