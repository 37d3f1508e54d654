package order

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/outbox"
)

const PageSize = 8

// Event types written to the outbox.
const (
	EventOrderCreated = "OrderCreated"
	EventOrderUpdated = "OrderUpdated"
	EventOrderDeleted = "OrderDeleted"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrInvalidCustomer = errors.New("customer does not exist")
	ErrInvalidProduct  = errors.New("product does not exist")
	ErrInvalidInput    = errors.New("invalid order")
	// ErrInsufficientStock is the inventory error, so either package's sentinel matches.
	ErrInsufficientStock = inventory.ErrInsufficientStock
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	FindOrders(ctx context.Context, status model.OrderStatus, customerName string) ([]model.Order, error)
	UpdateOrder(ctx context.Context, input *dto.UpdateOrderInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	PrintOrder(ctx context.Context, id string) (*model.Document, error)
}

type CustomerChecker interface {
	CustomerExists(ctx context.Context, id string) (bool, error)
}

// EventPublisher stores events in the caller's transaction.
type EventPublisher interface {
	Enqueue(ctx context.Context, event outbox.Event) error
}

type DocumentGenerator interface {
	GenerateOrderDocument(order *model.Order) (*model.Document, error)
}
