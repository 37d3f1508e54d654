package usecase_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/product/usecase"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snacksID = "2b7e1516-28ae-4d2a-abf7-158809cf4f3c"

type memRepo struct {
	items      map[string]model.Product
	categories map[string]bool
	referenced map[string]bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		items:      map[string]model.Product{},
		categories: map[string]bool{snacksID: true},
		referenced: map[string]bool{},
	}
}

func (m *memRepo) Create(_ context.Context, p *model.Product) error {
	m.items[p.ID] = *p
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memRepo) FindAll(_ context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	out := []model.Product{}
	for _, p := range m.items {
		if f.SearchQuery != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.SearchQuery)) {
			continue
		}
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (m *memRepo) Update(_ context.Context, p *model.Product) error {
	m.items[p.ID] = *p
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memRepo) IsNameUnique(_ context.Context, name, excludeID string) (bool, error) {
	for _, p := range m.items {
		if p.Name == name && p.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

func (m *memRepo) CategoryExists(_ context.Context, id string) (bool, error) {
	return m.categories[id], nil
}

func (m *memRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	return m.referenced[id], nil
}

func newUseCase(repo product.Repository) product.UseCase {
	return usecase.NewProductUseCase(repo, database.NoopTransactor{}, logger.NewNop())
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(newMemRepo())

	tests := []struct {
		name    string
		input   dto.CreateProductInput
		wantErr error
	}{
		{"valid", dto.CreateProductInput{Name: "Tea", Quantity: 0, Price: decimal.RequireFromString("0.01")}, nil},
		{"with category", dto.CreateProductInput{Name: "Coffee", CategoryID: snacksID, Quantity: 5, Price: decimal.NewFromInt(3)}, nil},
		{"blank name", dto.CreateProductInput{Name: " ", Price: decimal.NewFromInt(1)}, product.ErrInvalidInput},
		{"negative quantity", dto.CreateProductInput{Name: "Milk", Quantity: -1, Price: decimal.NewFromInt(1)}, product.ErrInvalidInput},
		{"price too low", dto.CreateProductInput{Name: "Milk", Price: decimal.RequireFromString("0.009")}, product.ErrInvalidInput},
		{"zero price", dto.CreateProductInput{Name: "Milk"}, product.ErrInvalidInput},
		{"unknown category", dto.CreateProductInput{Name: "Milk", CategoryID: "9e107d9d-372b-4b8e-9f4a-3d5c6b7a8e9f", Price: decimal.NewFromInt(1)}, product.ErrInvalidCategory},
		{"malformed category", dto.CreateProductInput{Name: "Milk", CategoryID: "nope", Price: decimal.NewFromInt(1)}, product.ErrInvalidCategory},
		{"duplicate name", dto.CreateProductInput{Name: "Tea", Price: decimal.NewFromInt(1)}, product.ErrNameTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			p, err := uc.CreateProduct(ctx, &input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.Quantity, p.Quantity)
			assert.Equal(t, tt.input.CategoryID != "", p.CategoryID != nil)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	uc := newUseCase(repo)

	tea, err := uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Tea", CategoryID: snacksID, Quantity: 1, Price: decimal.NewFromInt(2)})
	require.NoError(t, err)
	_, err = uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Coffee", Quantity: 1, Price: decimal.NewFromInt(2)})
	require.NoError(t, err)

	got, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: tea.ID, Name: "Tea", Quantity: 9, Price: decimal.RequireFromString("4.50")})
	require.NoError(t, err)
	assert.Equal(t, 9, got.Quantity)
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, "4.50", repo.items[tea.ID].Price.StringFixed(2))

	_, err = uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: tea.ID, Name: "Coffee", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, product.ErrNameTaken)

	_, err = uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: "missing", Name: "X", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	uc := newUseCase(repo)

	p, err := uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Tea", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	repo.referenced[p.ID] = true
	assert.ErrorIs(t, uc.DeleteProduct(ctx, p.ID), product.ErrInUse)

	repo.referenced[p.ID] = false
	require.NoError(t, uc.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, uc.DeleteProduct(ctx, p.ID), product.ErrNotFound)

	_, err = uc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(newMemRepo())
	for _, n := range []string{"Green Tea", "Coffee", "black tea"} {
		_, err := uc.CreateProduct(ctx, &dto.CreateProductInput{Name: n, Price: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}

	found, err := uc.SearchProducts(ctx, "TEA")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	all, err := uc.SearchProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMalformedProductID(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(newMemRepo())

	_, err := uc.GetProduct(ctx, "xyz")
	assert.ErrorIs(t, err, product.ErrNotFound)
	assert.ErrorIs(t, uc.DeleteProduct(ctx, "xyz"), product.ErrNotFound)
	_, err = uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: "xyz", Name: "X", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, product.ErrNotFound)
}
