package inventory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	// Stock levels; both return nil when the product does not exist
	GetStock(ctx context.Context, productID string) (*model.Stock, error)
	GetStockForUpdate(ctx context.Context, productID string) (*model.Stock, error)

	// Movements / Audit
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	// Applies movement.QuantityChange to the product and records the movement.
	// Must run inside a transaction.
	AdjustStockWithMovement(ctx context.Context, movement *model.StockMovement) error
}
