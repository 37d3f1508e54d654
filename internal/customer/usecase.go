package customer

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/customer/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

const PageSize = 10

var (
	ErrNotFound     = errors.New("customer not found")
	ErrNameTaken    = errors.New("customer name already exists")
	ErrInUse        = errors.New("customer has orders")
	ErrInvalidInput = errors.New("invalid customer")
)

type UseCase interface {
	CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	CustomerExists(ctx context.Context, id string) (bool, error)
	ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
	ListAllCustomers(ctx context.Context) ([]model.Customer, error)
	SearchCustomers(ctx context.Context, name string) ([]model.Customer, error)
	UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}
