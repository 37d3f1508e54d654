package category

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	SearchByName(ctx context.Context, name string) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error

	// Name uniqueness, excludeID skips the category being updated
	IsNameUnique(ctx context.Context, name, excludeID string) (bool, error)

	// Sets category_id to NULL on every product of the category
	DetachProducts(ctx context.Context, id string) (int64, error)
}
