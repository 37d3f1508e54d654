package inventory

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

const MovementPageSize = 20

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidInput      = errors.New("invalid stock adjustment")
)

// UseCase owns every stock mutation. Increase and Decrease join the caller's
// transaction when there is one.
type UseCase interface {
	GetStock(ctx context.Context, productID string) (*model.Stock, error)
	// LockStock reads the stock with a row lock held until the surrounding transaction ends.
	LockStock(ctx context.Context, productID string) (*model.Stock, error)
	IncreaseStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error)
	DecreaseStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
