package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	invdto "github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/outbox"
	"github.com/fekuna/omnipos-inventory-service/pkg/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const referenceType = "order"

type orderUseCase struct {
	repo      order.Repository
	customers order.CustomerChecker
	inventory inventory.UseCase
	events    order.EventPublisher
	documents order.DocumentGenerator
	tx        database.Transactor
	logger    logger.ZapLogger
}

func NewOrderUseCase(
	repo order.Repository,
	customers order.CustomerChecker,
	inv inventory.UseCase,
	events order.EventPublisher,
	documents order.DocumentGenerator,
	tx database.Transactor,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		customers: customers,
		inventory: inv,
		events:    events,
		documents: documents,
		tx:        tx,
		logger:    log,
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	log := uc.logger.With(zap.String("op", "CreateOrder"), zap.String("customer_id", input.CustomerID))
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", order.ErrInvalidInput, err)
	}
	status := input.Status
	if status == "" {
		status = model.OrderStatusUnpaid
	}

	now := time.Now()
	o := &model.Order{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CustomerID: input.CustomerID,
		Status:     status,
		Date:       now,
	}
	o.Items = buildItems(o.ID, input.Items)

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.checkCustomer(ctx, o.CustomerID); err != nil {
			return err
		}

		// Every item is checked before any stock moves.
		if err := uc.checkAvailable(ctx, o.Items); err != nil {
			log.Warn("order rejected", zap.Error(err))
			return err
		}
		for _, item := range o.Items {
			if err := uc.deduct(ctx, o.ID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := uc.repo.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return uc.publish(ctx, order.EventOrderCreated, o)
	})
	if err != nil {
		return nil, err
	}

	log.Info("order created", zap.String("order_id", o.ID), zap.Int("items", len(o.Items)))
	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	if !validate.ID(id) {
		return nil, order.ErrNotFound
	}
	var o *model.Order
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		o, err = uc.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if o == nil {
		uc.logger.Warn("order not found", zap.String("op", "GetOrder"), zap.String("order_id", id))
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	var (
		orders []model.Order
		count  int
	)
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		orders, count, err = uc.repo.FindAllByStatus(ctx, filters)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (uc *orderUseCase) FindOrders(ctx context.Context, status model.OrderStatus, customerName string) ([]model.Order, error) {
	var orders []model.Order
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		orders, err = uc.repo.FindByStatusAndCustomerName(ctx, status, customerName)
		return err
	})
	return orders, err
}

func (uc *orderUseCase) UpdateOrder(ctx context.Context, input *dto.UpdateOrderInput) (*model.Order, error) {
	log := uc.logger.With(zap.String("op", "UpdateOrder"), zap.String("order_id", input.ID))
	if !validate.ID(input.ID) {
		return nil, order.ErrNotFound
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", order.ErrInvalidInput, err)
	}

	var o *model.Order
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		o, err = uc.repo.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if o == nil {
			return order.ErrNotFound
		}
		if err := uc.checkCustomer(ctx, input.CustomerID); err != nil {
			return err
		}

		items := buildItems(o.ID, input.Items)
		if err := uc.reconcile(ctx, o.ID, o.Items, items); err != nil {
			log.Warn("reconciliation failed", zap.Error(err))
			return err
		}

		o.CustomerID = input.CustomerID
		o.Status = input.Status
		o.Items = items
		o.UpdatedAt = time.Now()
		if err := uc.repo.Update(ctx, o); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return uc.publish(ctx, order.EventOrderUpdated, o)
	})
	if err != nil {
		return nil, err
	}

	log.Info("order updated", zap.String("status", string(o.Status)), zap.Int("items", len(o.Items)))
	return o, nil
}

// reconcile moves stock from the old item list to the updated one.
func (uc *orderUseCase) reconcile(ctx context.Context, orderID string, old, updated []model.OrderItem) error {
	diff := diffItems(old, updated)

	// 1. Kept items: delta check pairs the two kept lists by position.
	pairs := len(diff.keptNew)
	if len(diff.keptOld) < pairs {
		pairs = len(diff.keptOld)
	}
	for i := 0; i < pairs; i++ {
		stock, err := uc.lockStock(ctx, diff.keptOld[i].ProductID)
		if err != nil {
			return err
		}
		if delta := diff.keptNew[i].Quantity - diff.keptOld[i].Quantity; delta > stock.Quantity {
			return fmt.Errorf("%w: %s has %d, needs %d more", order.ErrInsufficientStock, stock.Name, stock.Quantity, delta)
		}
	}
	ids, net := netChange(diff)
	for _, productID := range ids {
		var err error
		if change := net[productID]; change > 0 {
			err = uc.deduct(ctx, orderID, productID, change)
		} else {
			err = uc.restore(ctx, orderID, productID, -change)
		}
		if err != nil {
			return err
		}
	}

	// 2. New items.
	if err := uc.checkAvailable(ctx, diff.added); err != nil {
		return err
	}
	for _, item := range diff.added {
		if err := uc.deduct(ctx, orderID, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	// 3. Removed items.
	for _, item := range diff.removed {
		if err := uc.restore(ctx, orderID, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, id string) error {
	log := uc.logger.With(zap.String("op", "DeleteOrder"), zap.String("order_id", id))
	if !validate.ID(id) {
		log.Warn("attempt to delete missing order")
		return order.ErrNotFound
	}

	var restored bool
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			log.Warn("attempt to delete missing order")
			return order.ErrNotFound
		}

		// Paid orders have consumed their stock.
		if o.Status == model.OrderStatusUnpaid {
			for _, item := range o.Items {
				if err := uc.restore(ctx, o.ID, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			restored = true
		}

		if err := uc.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return uc.publish(ctx, order.EventOrderDeleted, o)
	})
	if err != nil {
		return err
	}

	log.Info("order deleted", zap.Bool("stock_restored", restored))
	return nil
}

func (uc *orderUseCase) PrintOrder(ctx context.Context, id string) (*model.Document, error) {
	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := uc.documents.GenerateOrderDocument(o)
	if err != nil {
		return nil, fmt.Errorf("generate document: %w", err)
	}
	uc.logger.Debug("order document generated", zap.String("order_id", id), zap.Int64("size", doc.Size))
	return doc, nil
}

func buildItems(orderID string, inputs []dto.OrderItemInput) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, model.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Position:  i,
		})
	}
	return items
}

func (uc *orderUseCase) checkCustomer(ctx context.Context, customerID string) error {
	if !validate.ID(customerID) {
		return order.ErrInvalidCustomer
	}
	ok, err := uc.customers.CustomerExists(ctx, customerID)
	if err != nil {
		return fmt.Errorf("check customer: %w", err)
	}
	if !ok {
		return order.ErrInvalidCustomer
	}
	return nil
}

func (uc *orderUseCase) lockStock(ctx context.Context, productID string) (*model.Stock, error) {
	if !validate.ID(productID) {
		return nil, fmt.Errorf("%w: %s", order.ErrInvalidProduct, productID)
	}
	stock, err := uc.inventory.LockStock(ctx, productID)
	if errors.Is(err, inventory.ErrProductNotFound) {
		return nil, fmt.Errorf("%w: %s", order.ErrInvalidProduct, productID)
	}
	return stock, err
}

// checkAvailable locks every product on the lines and checks the combined
// quantity per product against its stock.
func (uc *orderUseCase) checkAvailable(ctx context.Context, items []model.OrderItem) error {
	products, total := quantities(items)
	for _, productID := range products {
		stock, err := uc.lockStock(ctx, productID)
		if err != nil {
			return err
		}
		if total[productID] > stock.Quantity {
			return fmt.Errorf("%w: %s has %d, requested %d", order.ErrInsufficientStock, stock.Name, stock.Quantity, total[productID])
		}
	}
	return nil
}

func (uc *orderUseCase) deduct(ctx context.Context, orderID, productID string, quantity int) error {
	_, err := uc.inventory.DecreaseStock(ctx, &invdto.AdjustStockInput{
		ProductID:     productID,
		Quantity:      quantity,
		MovementType:  model.MovementOrderPlaced,
		ReferenceType: referenceType,
		ReferenceID:   orderID,
	})
	if errors.Is(err, inventory.ErrProductNotFound) {
		return fmt.Errorf("%w: %s", order.ErrInvalidProduct, productID)
	}
	return err
}

func (uc *orderUseCase) restore(ctx context.Context, orderID, productID string, quantity int) error {
	_, err := uc.inventory.IncreaseStock(ctx, &invdto.AdjustStockInput{
		ProductID:     productID,
		Quantity:      quantity,
		MovementType:  model.MovementOrderReturned,
		ReferenceType: referenceType,
		ReferenceID:   orderID,
	})
	return err
}

func (uc *orderUseCase) publish(ctx context.Context, eventType string, o *model.Order) error {
	payload := dto.OrderEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Items:      make([]dto.OrderEventItem, 0, len(o.Items)),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, item := range o.Items {
		payload.Items = append(payload.Items, dto.OrderEventItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	event, err := outbox.NewEvent(ctx, referenceType, o.ID, eventType, payload)
	if err != nil {
		return err
	}
	if err := uc.events.Enqueue(ctx, event); err != nil {
		return fmt.Errorf("enqueue %s: %w", eventType, err)
	}
	return nil
}
