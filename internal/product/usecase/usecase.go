package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/validate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var minPrice = decimal.New(1, -2)

type productUseCase struct {
	repo   product.Repository
	tx     database.Transactor
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, tx database.Transactor, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func checkInput(input interface{}, price decimal.Decimal) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", product.ErrInvalidInput, err)
	}
	if price.LessThan(minPrice) {
		return fmt.Errorf("%w: price must be at least %s", product.ErrInvalidInput, minPrice.StringFixed(2))
	}
	return nil
}

// resolveCategory returns nil for an empty id and fails when the category is unknown.
func (uc *productUseCase) resolveCategory(ctx context.Context, categoryID string) (*string, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, nil
	}
	if !validate.ID(categoryID) {
		return nil, product.ErrInvalidCategory
	}
	exists, err := uc.repo.CategoryExists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, product.ErrInvalidCategory
	}
	return &categoryID, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	log := uc.logger.With(zap.String("op", "CreateProduct"))
	input.Name = strings.TrimSpace(input.Name)
	if err := checkInput(input, input.Price); err != nil {
		return nil, err
	}

	var p *model.Product
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		unique, err := uc.repo.IsNameUnique(ctx, input.Name, "")
		if err != nil {
			return err
		}
		if !unique {
			log.Warn("duplicate product name", zap.String("name", input.Name))
			return product.ErrNameTaken
		}

		categoryID, err := uc.resolveCategory(ctx, input.CategoryID)
		if err != nil {
			return err
		}

		now := time.Now()
		p = &model.Product{
			BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			Name:       input.Name,
			CategoryID: categoryID,
			Quantity:   input.Quantity,
			Price:      input.Price.Round(2),
		}
		return uc.repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	log.Info("product created",
		zap.String("product_id", p.ID),
		zap.Int("quantity", p.Quantity),
		zap.String("price", p.Price.StringFixed(2)),
	)
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if !validate.ID(id) {
		return nil, product.ErrNotFound
	}
	var p *model.Product
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = uc.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	var (
		products []model.Product
		count    int
	)
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		products, count, err = uc.repo.FindAll(ctx, filters)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (uc *productUseCase) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	products, _, err := uc.ListProducts(ctx, &dto.ProductFilters{SortOrder: "asc"})
	return products, err
}

func (uc *productUseCase) SearchProducts(ctx context.Context, name string) ([]model.Product, error) {
	products, _, err := uc.ListProducts(ctx, &dto.ProductFilters{
		SearchQuery: strings.TrimSpace(name),
		SortOrder:   "asc",
	})
	return products, err
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	log := uc.logger.With(zap.String("op", "UpdateProduct"), zap.String("product_id", input.ID))
	if !validate.ID(input.ID) {
		return nil, product.ErrNotFound
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := checkInput(input, input.Price); err != nil {
		return nil, err
	}

	var p *model.Product
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = uc.repo.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if p == nil {
			return product.ErrNotFound
		}

		if p.Name != input.Name {
			unique, err := uc.repo.IsNameUnique(ctx, input.Name, p.ID)
			if err != nil {
				return err
			}
			if !unique {
				log.Warn("duplicate product name", zap.String("name", input.Name))
				return product.ErrNameTaken
			}
		}

		categoryID, err := uc.resolveCategory(ctx, input.CategoryID)
		if err != nil {
			return err
		}

		p.Name = input.Name
		p.CategoryID = categoryID
		p.Quantity = input.Quantity
		p.Price = input.Price.Round(2)
		p.UpdatedAt = time.Now()
		return uc.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	log.Info("product updated", zap.Int("quantity", p.Quantity))
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	log := uc.logger.With(zap.String("op", "DeleteProduct"), zap.String("product_id", id))
	if !validate.ID(id) {
		return product.ErrNotFound
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return product.ErrNotFound
		}

		referenced, err := uc.repo.IsReferenced(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return product.ErrInUse
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		log.Warn("product not deleted", zap.Error(err))
		return err
	}

	log.Info("product deleted")
	return nil
}
