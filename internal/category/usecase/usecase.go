package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warungpos/pos-service/internal/apperr"
	"github.com/warungpos/pos-service/internal/category"
	"github.com/warungpos/pos-service/internal/category/dto"
	"github.com/warungpos/pos-service/internal/model"
	"github.com/warungpos/pos-service/internal/platform/logger"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.Logger
}

func NewCategoryUseCase(repo category.Repository, log logger.Logger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if input.Name == "" {
		return nil, apperr.Validation("category name is required")
	}

	now := time.Now()
	c := &model.Category{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:        input.Name,
		Description: optional(input.Description),
		ImageURL:    optional(input.ImageURL),
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, &apperr.StoreWriteError{Step: "category creation", Err: err}
	}
	return c, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &apperr.StoreReadError{Op: "category lookup", Err: err}
	}
	if c == nil {
		return nil, apperr.ErrNotFound
	}
	return c, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, &apperr.StoreReadError{Op: "category listing", Err: err}
	}
	return categories, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	c, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, &apperr.StoreReadError{Op: "category lookup", Err: err}
	}
	if c == nil {
		return nil, apperr.ErrNotFound
	}
	if input.Name == "" {
		return nil, apperr.Validation("category name is required")
	}

	c.Name = input.Name
	c.Description = optional(input.Description)
	c.ImageURL = optional(input.ImageURL)
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, &apperr.StoreWriteError{Step: "category update", Err: err}
	}
	return c, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return &apperr.StoreReadError{Op: "category lookup", Err: err}
	}
	if c == nil {
		return nil // Already deleted
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return &apperr.StoreWriteError{Step: "category deletion", Err: err}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
