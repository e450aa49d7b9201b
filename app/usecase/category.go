package usecase

import (
	"context"
	"log/slog"

	"storefront-service/app/domain"
	"storefront-service/config"
)

type categoryUsecase struct {
	categoryRepo domain.CategoryRepository
	cfg          *config.Config
}

func NewCategoryUsecase(categoryRepo domain.CategoryRepository, cfg *config.Config) domain.CategoryUsecase {
	return &categoryUsecase{categoryRepo, cfg}
}

func (u *categoryUsecase) Create(ctx context.Context, req domain.CategoryCreateRequest) (*domain.Category, error) {
	category := domain.Category{Name: req.Name}

	if err := u.categoryRepo.Create(ctx, &category); err != nil {
		slog.ErrorContext(ctx, "[categoryUsecase] Create", "createCategory", err)
		return nil, err
	}

	slog.InfoContext(ctx, "[categoryUsecase] Create", "category_id", category.ID)
	return &category, nil
}

func (u *categoryUsecase) GetList(ctx context.Context) ([]domain.Category, error) {
	categories, err := u.categoryRepo.GetList(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[categoryUsecase] GetList", "getList", err)
		return nil, err
	}

	return categories, nil
}

func (u *categoryUsecase) Delete(ctx context.Context, id int64) error {
	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "[categoryUsecase] Delete", "delete", err)
		return err
	}

	return nil
}
