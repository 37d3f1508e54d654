package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/category"
	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	tx     database.Transactor
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, tx database.Transactor, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	log := uc.logger.With(zap.String("op", "CreateCategory"))
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", category.ErrInvalidInput, err)
	}

	var cat *model.Category
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		unique, err := uc.repo.IsNameUnique(ctx, input.Name, "")
		if err != nil {
			return err
		}
		if !unique {
			log.Warn("duplicate category name", zap.String("name", input.Name))
			return category.ErrNameTaken
		}

		now := time.Now()
		cat = &model.Category{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			Name:      input.Name,
		}
		return uc.repo.Create(ctx, cat)
	})
	if err != nil {
		return nil, err
	}

	log.Info("category created", zap.String("category_id", cat.ID), zap.String("name", cat.Name))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if !validate.ID(id) {
		return nil, category.ErrNotFound
	}
	var cat *model.Category
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		cat, err = uc.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if cat == nil {
		uc.logger.Warn("category not found", zap.String("op", "GetCategory"), zap.String("category_id", id))
		return nil, category.ErrNotFound
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	var (
		categories []model.Category
		count      int
	)
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		categories, count, err = uc.repo.FindAll(ctx, filters)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return categories, count, nil
}

func (uc *categoryUseCase) ListAllCategories(ctx context.Context) ([]model.Category, error) {
	categories, _, err := uc.ListCategories(ctx, &dto.CategoryFilters{SortOrder: "asc"})
	return categories, err
}

func (uc *categoryUseCase) SearchCategories(ctx context.Context, name string) ([]model.Category, error) {
	name = strings.TrimSpace(name)
	uc.logger.Debug("searching categories", zap.String("op", "SearchCategories"), zap.String("name", name))
	if name == "" {
		return uc.ListAllCategories(ctx)
	}

	var categories []model.Category
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		categories, err = uc.repo.SearchByName(ctx, name)
		return err
	})
	return categories, err
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	log := uc.logger.With(zap.String("op", "UpdateCategory"), zap.String("category_id", input.ID))
	if !validate.ID(input.ID) {
		return nil, category.ErrNotFound
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", category.ErrInvalidInput, err)
	}

	var cat *model.Category
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		cat, err = uc.repo.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if cat == nil {
			return category.ErrNotFound
		}

		if cat.Name == input.Name {
			return nil
		}

		unique, err := uc.repo.IsNameUnique(ctx, input.Name, cat.ID)
		if err != nil {
			return err
		}
		if !unique {
			log.Warn("duplicate category name", zap.String("name", input.Name))
			return category.ErrNameTaken
		}

		cat.Name = input.Name
		cat.UpdatedAt = time.Now()
		return uc.repo.Update(ctx, cat)
	})
	if err != nil {
		return nil, err
	}

	log.Info("category updated", zap.String("name", cat.Name))
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	log := uc.logger.With(zap.String("op", "DeleteCategory"), zap.String("category_id", id))
	if !validate.ID(id) {
		log.Warn("attempt to delete missing category")
		return category.ErrNotFound
	}

	var detached int64
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		cat, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if cat == nil {
			log.Warn("attempt to delete missing category")
			return category.ErrNotFound
		}

		// Products outlive their category.
		detached, err = uc.repo.DetachProducts(ctx, id)
		if err != nil {
			return fmt.Errorf("detach products: %w", err)
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Info("category deleted", zap.Int64("detached_products", detached))
	return nil
}
