package customer

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/customer/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindAll(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
	SearchByName(ctx context.Context, name string) ([]model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id string) error

	IsNameUnique(ctx context.Context, name, excludeID string) (bool, error)

	// Reports whether any order references the customer
	HasOrders(ctx context.Context, id string) (bool, error)
}
