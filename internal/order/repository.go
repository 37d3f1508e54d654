package order

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
)

type Repository interface {
	// Create stores the order and its items
	Create(ctx context.Context, order *model.Order) error
	// FindByID returns the order with items, or nil when absent
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAllByStatus(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	FindByStatusAndCustomerName(ctx context.Context, status model.OrderStatus, customerName string) ([]model.Order, error)
	// Update rewrites the order row and replaces its items
	Update(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, id string) error
}
