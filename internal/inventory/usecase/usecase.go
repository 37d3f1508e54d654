package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo   inventory.Repository
	tx     database.Transactor
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, tx database.Transactor, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func (uc *inventoryUseCase) GetStock(ctx context.Context, productID string) (*model.Stock, error) {
	if !validate.ID(productID) {
		return nil, inventory.ErrProductNotFound
	}
	var stock *model.Stock
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		stock, err = uc.repo.GetStock(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, inventory.ErrProductNotFound
	}
	return stock, nil
}

func (uc *inventoryUseCase) LockStock(ctx context.Context, productID string) (*model.Stock, error) {
	if !validate.ID(productID) {
		return nil, inventory.ErrProductNotFound
	}
	var stock *model.Stock
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		stock, err = uc.repo.GetStockForUpdate(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, inventory.ErrProductNotFound
	}
	return stock, nil
}

func (uc *inventoryUseCase) IncreaseStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	return uc.adjust(ctx, input, 1)
}

func (uc *inventoryUseCase) DecreaseStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	return uc.adjust(ctx, input, -1)
}

func (uc *inventoryUseCase) adjust(ctx context.Context, input *dto.AdjustStockInput, sign int) (*model.StockMovement, error) {
	if !validate.ID(input.ProductID) {
		return nil, inventory.ErrProductNotFound
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", inventory.ErrInvalidInput, err)
	}

	log := uc.logger.With(
		zap.String("op", "AdjustStock"),
		zap.String("product_id", input.ProductID),
		zap.String("movement_type", string(input.MovementType)),
	)

	var movement *model.StockMovement
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		// 1. Lock current stock
		stock, err := uc.repo.GetStockForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if stock == nil {
			return inventory.ErrProductNotFound
		}

		change := sign * input.Quantity
		after := stock.Quantity + change
		if after < 0 {
			log.Warn("insufficient stock", zap.Int("available", stock.Quantity), zap.Int("requested", input.Quantity))
			return fmt.Errorf("%w: %s has %d, requested %d", inventory.ErrInsufficientStock, stock.Name, stock.Quantity, input.Quantity)
		}

		var refID, refType *string
		if input.ReferenceID != "" {
			refID = &input.ReferenceID
		}
		if input.ReferenceType != "" {
			refType = &input.ReferenceType
		}

		// 2. Apply and log movement
		movement = &model.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      input.ProductID,
			MovementType:   input.MovementType,
			QuantityChange: change,
			QuantityBefore: stock.Quantity,
			QuantityAfter:  after,
			ReferenceType:  refType,
			ReferenceID:    refID,
			Notes:          input.Notes,
			CreatedAt:      time.Now(),
			ProductName:    stock.Name,
		}
		return uc.repo.AdjustStockWithMovement(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	log.Debug("stock adjusted",
		zap.Int("before", movement.QuantityBefore),
		zap.Int("after", movement.QuantityAfter),
	)
	return movement, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var (
		items []model.StockMovement
		count int
	)
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		items, count, err = uc.repo.ListMovements(ctx, filters)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}
