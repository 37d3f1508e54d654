package product

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
)

const PageSize = 10

var (
	ErrNotFound        = errors.New("product not found")
	ErrNameTaken       = errors.New("product name already exists")
	ErrInvalidCategory = errors.New("category does not exist")
	ErrInUse           = errors.New("product is referenced by orders")
	ErrInvalidInput    = errors.New("invalid product")
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	SearchProducts(ctx context.Context, name string) ([]model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
