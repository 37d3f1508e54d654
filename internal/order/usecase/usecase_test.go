package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	invdto "github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/order/usecase"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	prodA   = "a0000000-0000-4000-8000-00000000000a"
	prodB   = "b0000000-0000-4000-8000-00000000000b"
	prodC   = "c0000000-0000-4000-8000-00000000000c"
	prodZ   = "f0000000-0000-4000-8000-00000000000f" // never stocked
	custID  = "1c000000-0000-4000-8000-000000000001"
	otherID = "1c000000-0000-4000-8000-000000000002"
	ghostID = "1c000000-0000-4000-8000-000000000009" // never registered
)

type memRepo struct {
	orders map[string]model.Order
}

func (m *memRepo) Create(_ context.Context, o *model.Order) error {
	m.orders[o.ID] = copyOrder(*o)
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	o = copyOrder(o)
	return &o, nil
}

func (m *memRepo) FindAllByStatus(_ context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var out []model.Order
	for _, o := range m.orders {
		if o.Status == f.Status {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) FindByStatusAndCustomerName(_ context.Context, status model.OrderStatus, _ string) ([]model.Order, error) {
	out, _, err := m.FindAllByStatus(context.Background(), &dto.OrderFilters{Status: status})
	return out, err
}

func (m *memRepo) Update(_ context.Context, o *model.Order) error {
	m.orders[o.ID] = copyOrder(*o)
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.orders, id)
	return nil
}

func copyOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	return o
}

// fakeInventory keeps stock per product and records every adjustment.
type fakeInventory struct {
	inventory.UseCase
	stock     map[string]int
	movements []model.StockMovement
}

func (f *fakeInventory) LockStock(_ context.Context, productID string) (*model.Stock, error) {
	qty, ok := f.stock[productID]
	if !ok {
		return nil, inventory.ErrProductNotFound
	}
	return &model.Stock{ProductID: productID, Name: productID, Quantity: qty}, nil
}

func (f *fakeInventory) adjust(in *invdto.AdjustStockInput, sign int) (*model.StockMovement, error) {
	before, ok := f.stock[in.ProductID]
	if !ok {
		return nil, inventory.ErrProductNotFound
	}
	after := before + sign*in.Quantity
	if after < 0 {
		return nil, inventory.ErrInsufficientStock
	}
	f.stock[in.ProductID] = after
	m := model.StockMovement{
		ProductID:      in.ProductID,
		MovementType:   in.MovementType,
		QuantityChange: sign * in.Quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		ReferenceID:    &in.ReferenceID,
	}
	f.movements = append(f.movements, m)
	return &m, nil
}

func (f *fakeInventory) IncreaseStock(_ context.Context, in *invdto.AdjustStockInput) (*model.StockMovement, error) {
	return f.adjust(in, 1)
}

func (f *fakeInventory) DecreaseStock(_ context.Context, in *invdto.AdjustStockInput) (*model.StockMovement, error) {
	return f.adjust(in, -1)
}

type fakeCustomers map[string]bool

func (f fakeCustomers) CustomerExists(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

type fakeEvents struct {
	events []outbox.Event
}

func (f *fakeEvents) Enqueue(_ context.Context, e outbox.Event) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEvents) types() []string {
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}

type fakeDocuments struct{}

func (fakeDocuments) GenerateOrderDocument(o *model.Order) (*model.Document, error) {
	content := []byte("order " + o.ID)
	return &model.Document{Filename: "order-" + o.ID + ".pdf", Content: content, Size: int64(len(content))}, nil
}

type txKey struct{}

// rollbackTx snapshots the fakes when an outer transaction starts and
// restores them when it fails, mimicking a database rollback.
type rollbackTx struct {
	repo   *memRepo
	inv    *fakeInventory
	events *fakeEvents
}

func (t *rollbackTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	stock := make(map[string]int, len(t.inv.stock))
	for k, v := range t.inv.stock {
		stock[k] = v
	}
	orders := make(map[string]model.Order, len(t.repo.orders))
	for k, v := range t.repo.orders {
		orders[k] = v
	}
	movements, events := len(t.inv.movements), len(t.events.events)

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.inv.stock = stock
		t.repo.orders = orders
		t.inv.movements = t.inv.movements[:movements]
		t.events.events = t.events.events[:events]
		return err
	}
	return nil
}

func (t *rollbackTx) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	uc     order.UseCase
	repo   *memRepo
	inv    *fakeInventory
	events *fakeEvents
}

func newFixture(stock map[string]int) *fixture {
	f := &fixture{
		repo:   &memRepo{orders: map[string]model.Order{}},
		inv:    &fakeInventory{stock: stock},
		events: &fakeEvents{},
	}
	tx := &rollbackTx{repo: f.repo, inv: f.inv, events: f.events}
	f.uc = usecase.NewOrderUseCase(f.repo, fakeCustomers{custID: true, otherID: true}, f.inv, f.events, fakeDocuments{}, tx, logger.NewNop())
	return f
}

func items(pairs ...interface{}) []dto.OrderItemInput {
	var out []dto.OrderItemInput
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, dto.OrderItemInput{ProductID: pairs[i].(string), Quantity: pairs[i+1].(int)})
	}
	return out
}

func (f *fixture) create(t *testing.T, in ...dto.OrderItemInput) *model.Order {
	t.Helper()
	o, err := f.uc.CreateOrder(context.Background(), &dto.CreateOrderInput{CustomerID: custID, Items: in})
	require.NoError(t, err)
	return o
}

func TestCreateThenDeleteRestoresStock(t *testing.T) {
	f := newFixture(map[string]int{prodA: 10})

	o := f.create(t, items(prodA, 3)...)
	assert.Equal(t, model.OrderStatusUnpaid, o.Status)
	assert.Equal(t, 7, f.inv.stock[prodA])

	require.NoError(t, f.uc.DeleteOrder(context.Background(), o.ID))
	assert.Equal(t, 10, f.inv.stock[prodA])
	assert.Empty(t, f.repo.orders)
	assert.Equal(t, []string{order.EventOrderCreated, order.EventOrderDeleted}, f.events.types())
}

func TestCreateOrderDecreasesEveryItem(t *testing.T) {
	f := newFixture(map[string]int{prodA: 10, prodB: 5})

	o := f.create(t, items(prodA, 2, prodB, 5)...)
	assert.Equal(t, map[string]int{prodA: 8, prodB: 0}, f.inv.stock)
	require.Len(t, f.inv.movements, 2)
	for _, m := range f.inv.movements {
		assert.Equal(t, model.MovementOrderPlaced, m.MovementType)
		assert.Equal(t, o.ID, *m.ReferenceID)
	}

	stored := f.repo.orders[o.ID]
	require.Len(t, stored.Items, 2)
	assert.Equal(t, 1, stored.Items[1].Position)

	var payload dto.OrderEvent
	require.NoError(t, json.Unmarshal(f.events.events[0].Payload, &payload))
	assert.Equal(t, o.ID, payload.OrderID)
	assert.Len(t, payload.Items, 2)
}

func TestCreateOrderFailures(t *testing.T) {
	tests := []struct {
		name    string
		input   dto.CreateOrderInput
		wantErr error
	}{
		{"insufficient stock on second item", dto.CreateOrderInput{CustomerID: custID, Items: items(prodA, 1, prodB, 6)}, order.ErrInsufficientStock},
		{"unknown customer", dto.CreateOrderInput{CustomerID: ghostID, Items: items(prodA, 1)}, order.ErrInvalidCustomer},
		{"unknown product", dto.CreateOrderInput{CustomerID: custID, Items: items(prodA, 1, prodZ, 1)}, order.ErrInvalidProduct},
		{"no items", dto.CreateOrderInput{CustomerID: custID}, order.ErrInvalidInput},
		{"zero quantity", dto.CreateOrderInput{CustomerID: custID, Items: items(prodA, 0)}, order.ErrInvalidInput},
		{"bad status", dto.CreateOrderInput{CustomerID: custID, Status: "SHIPPED", Items: items(prodA, 1)}, order.ErrInvalidInput},
		{"duplicate lines exceed stock together", dto.CreateOrderInput{CustomerID: custID, Items: items(prodA, 6, prodB, 1, prodA, 5)}, order.ErrInsufficientStock},
		{"malformed customer id", dto.CreateOrderInput{CustomerID: "not-a-uuid", Items: items(prodA, 1)}, order.ErrInvalidCustomer},
		{"malformed product id", dto.CreateOrderInput{CustomerID: custID, Items: items(prodA, 1, "xyz", 1)}, order.ErrInvalidProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(map[string]int{prodA: 10, prodB: 5})
			input := tt.input

			_, err := f.uc.CreateOrder(context.Background(), &input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, map[string]int{prodA: 10, prodB: 5}, f.inv.stock)
			assert.Empty(t, f.repo.orders)
			assert.Empty(t, f.events.events)
		})
	}
}

func TestCreateOrderDuplicateLinesNameProduct(t *testing.T) {
	f := newFixture(map[string]int{prodA: 10})

	_, err := f.uc.CreateOrder(context.Background(), &dto.CreateOrderInput{CustomerID: custID, Items: items(prodA, 6, prodA, 5)})
	require.ErrorIs(t, err, order.ErrInsufficientStock)
	assert.Contains(t, err.Error(), prodA+" has 10, requested 11")
	assert.Empty(t, f.inv.movements)

	o := f.create(t, items(prodA, 6, prodA, 4)...)
	assert.Zero(t, f.inv.stock[prodA])
	assert.Len(t, o.Items, 2)
}

func TestInsufficientStockMatchesInventorySentinel(t *testing.T) {
	assert.True(t, errors.Is(order.ErrInsufficientStock, inventory.ErrInsufficientStock))
}

func TestDeletePaidOrderKeepsStock(t *testing.T) {
	f := newFixture(map[string]int{prodA: 10})
	o, err := f.uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerID: custID,
		Status:     model.OrderStatusPaid,
		Items:      items(prodA, 4),
	})
	require.NoError(t, err)
	require.Equal(t, 6, f.inv.stock[prodA])

	require.NoError(t, f.uc.DeleteOrder(context.Background(), o.ID))
	assert.Equal(t, 6, f.inv.stock[prodA])
	assert.Empty(t, f.repo.orders)
}

func TestDeleteMissingOrder(t *testing.T) {
	f := newFixture(map[string]int{})
	assert.ErrorIs(t, f.uc.DeleteOrder(context.Background(), "nope"), order.ErrNotFound)
	assert.ErrorIs(t, f.uc.DeleteOrder(context.Background(), "00000000-0000-4000-8000-000000000000"), order.ErrNotFound)
	assert.Empty(t, f.events.events)
}

func TestUpdateOrder(t *testing.T) {
	tests := []struct {
		name      string
		initial   []dto.OrderItemInput
		updated   []dto.OrderItemInput
		wantStock map[string]int
		wantErr   error
	}{
		{
			name:      "unchanged items keep stock",
			initial:   items(prodA, 3, prodB, 2),
			updated:   items(prodA, 3, prodB, 2),
			wantStock: map[string]int{prodA: 7, prodB: 3, prodC: 5},
		},
		{
			name:      "reordered items keep stock",
			initial:   items(prodA, 3, prodB, 2),
			updated:   items(prodB, 2, prodA, 3),
			wantStock: map[string]int{prodA: 7, prodB: 3, prodC: 5},
		},
		{
			name:      "added item is deducted",
			initial:   items(prodA, 3),
			updated:   items(prodA, 3, prodC, 5),
			wantStock: map[string]int{prodA: 7, prodB: 5, prodC: 0},
		},
		{
			name:      "removed item is restored",
			initial:   items(prodA, 3, prodB, 2),
			updated:   items(prodB, 2),
			wantStock: map[string]int{prodA: 10, prodB: 3, prodC: 5},
		},
		{
			name:      "quantity change deducts new and restores old",
			initial:   items(prodA, 3),
			updated:   items(prodA, 5),
			wantStock: map[string]int{prodA: 5, prodB: 5, prodC: 5},
		},
		{
			// The new quantity is checked against current stock before the old one is returned.
			name:    "quantity change beyond current stock fails",
			initial: items(prodA, 3),
			updated: items(prodA, 8),
			wantErr: order.ErrInsufficientStock,
		},
		{
			name:    "added item beyond stock fails",
			initial: items(prodA, 3),
			updated: items(prodA, 3, prodC, 6),
			wantErr: order.ErrInsufficientStock,
		},
		{
			name:    "added lines of one product checked together",
			initial: items(prodA, 3),
			updated: items(prodA, 3, prodC, 3, prodC, 3),
			wantErr: order.ErrInsufficientStock,
		},
		{
			name:    "malformed product id",
			initial: items(prodA, 3),
			updated: items(prodA, 3, "xyz", 1),
			wantErr: order.ErrInvalidProduct,
		},
		{
			name:    "unknown product",
			initial: items(prodA, 3),
			updated: items(prodZ, 1),
			wantErr: order.ErrInvalidProduct,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(map[string]int{prodA: 10, prodB: 5, prodC: 5})
			o := f.create(t, tt.initial...)
			before := map[string]int{}
			for k, v := range f.inv.stock {
				before[k] = v
			}

			got, err := f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{
				ID:         o.ID,
				CustomerID: otherID,
				Status:     model.OrderStatusPaid,
				Items:      tt.updated,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, f.inv.stock)
				stored := f.repo.orders[o.ID]
				assert.Equal(t, model.OrderStatusUnpaid, stored.Status)
				assert.Equal(t, custID, stored.CustomerID)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, f.inv.stock)
			assert.Equal(t, model.OrderStatusPaid, got.Status)
			stored := f.repo.orders[o.ID]
			assert.Equal(t, otherID, stored.CustomerID)
			require.Len(t, stored.Items, len(tt.updated))
			for i, in := range tt.updated {
				assert.Equal(t, in.ProductID, stored.Items[i].ProductID)
				assert.Equal(t, in.Quantity, stored.Items[i].Quantity)
			}
			assert.Equal(t, order.EventOrderUpdated, f.events.types()[len(f.events.events)-1])
		})
	}
}

func TestUpdateOrderErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string]int{prodA: 10})
	o := f.create(t, items(prodA, 1)...)

	_, err := f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: "nope", CustomerID: custID, Status: model.OrderStatusPaid, Items: items(prodA, 1)})
	assert.ErrorIs(t, err, order.ErrNotFound)

	_, err = f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, CustomerID: ghostID, Status: model.OrderStatusPaid, Items: items(prodA, 1)})
	assert.ErrorIs(t, err, order.ErrInvalidCustomer)

	_, err = f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, CustomerID: "xyz", Status: model.OrderStatusPaid, Items: items(prodA, 1)})
	assert.ErrorIs(t, err, order.ErrInvalidCustomer)

	_, err = f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, CustomerID: custID, Items: items(prodA, 1)})
	assert.ErrorIs(t, err, order.ErrInvalidInput)
	assert.Equal(t, 9, f.inv.stock[prodA])
}

func TestGetAndPrintOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string]int{prodA: 10})
	o := f.create(t, items(prodA, 1)...)

	got, err := f.uc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	doc, err := f.uc.PrintOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "order-"+o.ID+".pdf", doc.Filename)
	assert.Equal(t, int64(len(doc.Content)), doc.Size)

	_, err = f.uc.PrintOrder(ctx, "nope")
	assert.ErrorIs(t, err, order.ErrNotFound)
	_, err = f.uc.GetOrder(ctx, "xyz")
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestListOrdersByStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string]int{prodA: 10})
	f.create(t, items(prodA, 1)...)
	f.create(t, items(prodA, 1)...)

	unpaid, count, err := f.uc.ListOrders(ctx, &dto.OrderFilters{Status: model.OrderStatusUnpaid, Page: 1, PageSize: order.PageSize})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, unpaid, 2)

	paid, err := f.uc.FindOrders(ctx, model.OrderStatusPaid, "")
	require.NoError(t, err)
	assert.Empty(t, paid)
}
