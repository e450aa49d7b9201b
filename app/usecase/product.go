package usecase

import (
	"context"
	"database/sql"
	"log/slog"

	"storefront-service/app/domain"
	"storefront-service/config"
)

type productUsecase struct {
	productRepo        domain.ProductRepository
	stockPublishBroker domain.BrokerPublisher
	cfg                *config.Config
}

func NewProductUsecase(productRepo domain.ProductRepository, stockPublishBroker domain.BrokerPublisher, cfg *config.Config) domain.ProductUsecase {
	return &productUsecase{productRepo, stockPublishBroker, cfg}
}

func (u *productUsecase) Create(ctx context.Context, req domain.ProductCreateRequest) (*domain.Product, error) {
	product := domain.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		CategoryID:   req.CategoryID,
		Image:        req.Image,
		Stock:        req.Stock,
		Manufacturer: req.Manufacturer,
		Sizes:        req.Sizes,
	}

	if err := u.productRepo.Create(ctx, &product); err != nil {
		slog.ErrorContext(ctx, "[productUsecase] Create", "createProduct", err)
		return nil, err
	}

	if err := u.stockPublishBroker.PublishStockChanged(ctx, domain.StockMessage{
		ProductID: product.ID,
		Stock:     product.Stock,
	}); err != nil {
		slog.WarnContext(ctx, "[productUsecase] Create", "publishStockChanged", err)
	}

	slog.InfoContext(ctx, "[productUsecase] Create", "product_id", product.ID)
	return &product, nil
}

func (u *productUsecase) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "[productUsecase] GetByID", "getProduct", err)
		return domain.Product{}, err
	}

	return product, nil
}

func (u *productUsecase) GetList(ctx context.Context) ([]domain.Product, error) {
	products, err := u.productRepo.GetList(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[productUsecase] GetList", "getList", err)
		return nil, err
	}

	return products, nil
}

// Update edits descriptive fields directly; a stock edit is routed through the
// ledger as a delta against the locked row, like every other stock writer.
func (u *productUsecase) Update(ctx context.Context, id int64, req domain.ProductUpdateRequest) (*domain.Product, error) {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "[productUsecase] Update", "getProduct", err)
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Manufacturer != nil {
		product.Manufacturer = *req.Manufacturer
	}
	if req.Sizes != nil {
		product.Sizes = req.Sizes
	}

	if err := u.productRepo.Update(ctx, &product); err != nil {
		slog.ErrorContext(ctx, "[productUsecase] Update", "updateProduct", err)
		return nil, err
	}

	if req.Stock != nil {
		newStock := product.Stock
		err = u.productRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			locked, err := u.productRepo.LockForUpdate(ctx, id, tx)
			if err != nil {
				slog.ErrorContext(ctx, "[productUsecase] Update", "lockProduct", err)
				return err
			}

			delta := *req.Stock - locked.Stock
			if delta == 0 {
				newStock = locked.Stock
				return nil
			}

			newStock, err = u.productRepo.AdjustStock(ctx, id, delta, tx)
			if err != nil {
				slog.ErrorContext(ctx, "[productUsecase] Update", "adjustStock", err)
				return err
			}
			return nil
		})
		if err != nil {
			slog.ErrorContext(ctx, "[productUsecase] Update", "withTransaction", err)
			return nil, err
		}

		product.Stock = newStock
		if err := u.stockPublishBroker.PublishStockChanged(ctx, domain.StockMessage{
			ProductID: id,
			Stock:     newStock,
		}); err != nil {
			slog.WarnContext(ctx, "[productUsecase] Update", "publishStockChanged", err)
		}
	}

	slog.InfoContext(ctx, "[productUsecase] Update", "product_id", id)
	return &product, nil
}

// Delete is soft: the record is retained with stock forced to zero.
func (u *productUsecase) Delete(ctx context.Context, id int64) error {
	if err := u.productRepo.SoftDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "[productUsecase] Delete", "softDelete", err)
		return err
	}

	if err := u.stockPublishBroker.PublishStockChanged(ctx, domain.StockMessage{
		ProductID: id,
		Stock:     0,
	}); err != nil {
		slog.WarnContext(ctx, "[productUsecase] Delete", "publishStockChanged", err)
	}

	slog.InfoContext(ctx, "[productUsecase] Delete", "product_id", id)
	return nil
}
