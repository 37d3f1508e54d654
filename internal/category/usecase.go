package category

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// PageSize is fixed for the category table.
const PageSize = 10

var (
	ErrNotFound     = errors.New("category not found")
	ErrNameTaken    = errors.New("category name already exists")
	ErrInvalidInput = errors.New("invalid category")
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	ListAllCategories(ctx context.Context) ([]model.Category, error)
	SearchCategories(ctx context.Context, name string) ([]model.Category, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
