package product

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error

	// Check name uniqueness
	IsNameUnique(ctx context.Context, name, excludeID string) (bool, error)

	CategoryExists(ctx context.Context, categoryID string) (bool, error)
	IsReferenced(ctx context.Context, id string) (bool, error)
}
