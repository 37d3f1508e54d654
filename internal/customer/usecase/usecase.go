package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/customer"
	"github.com/fekuna/omnipos-inventory-service/internal/customer/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type customerUseCase struct {
	repo   customer.Repository
	tx     database.Transactor
	logger logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, tx database.Transactor, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error) {
	log := uc.logger.With(zap.String("op", "CreateCustomer"))
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", customer.ErrInvalidInput, err)
	}

	var c *model.Customer
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		unique, err := uc.repo.IsNameUnique(ctx, input.Name, "")
		if err != nil {
			return err
		}
		if !unique {
			log.Warn("duplicate customer name", zap.String("name", input.Name))
			return customer.ErrNameTaken
		}

		now := time.Now()
		c = &model.Customer{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			Name:      input.Name,
			Phone:     optional(input.Phone),
			Address:   optional(input.Address),
		}
		return uc.repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	log.Info("customer created", zap.String("customer_id", c.ID))
	return c, nil
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	if !validate.ID(id) {
		return nil, customer.ErrNotFound
	}
	var c *model.Customer
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = uc.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

func (uc *customerUseCase) CustomerExists(ctx context.Context, id string) (bool, error) {
	if !validate.ID(id) {
		return false, nil
	}
	var exists bool
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		exists, err = uc.repo.ExistsByID(ctx, id)
		return err
	})
	return exists, err
}

func (uc *customerUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	var (
		customers []model.Customer
		count     int
	)
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		customers, count, err = uc.repo.FindAll(ctx, filters)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return customers, count, nil
}

func (uc *customerUseCase) ListAllCustomers(ctx context.Context) ([]model.Customer, error) {
	customers, _, err := uc.ListCustomers(ctx, &dto.CustomerFilters{SortOrder: "asc"})
	return customers, err
}

func (uc *customerUseCase) SearchCustomers(ctx context.Context, name string) ([]model.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uc.ListAllCustomers(ctx)
	}

	var customers []model.Customer
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		customers, err = uc.repo.SearchByName(ctx, name)
		return err
	})
	return customers, err
}

func (uc *customerUseCase) UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error) {
	log := uc.logger.With(zap.String("op", "UpdateCustomer"), zap.String("customer_id", input.ID))
	if !validate.ID(input.ID) {
		return nil, customer.ErrNotFound
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", customer.ErrInvalidInput, err)
	}

	var c *model.Customer
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = uc.repo.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if c == nil {
			return customer.ErrNotFound
		}

		if c.Name != input.Name {
			unique, err := uc.repo.IsNameUnique(ctx, input.Name, c.ID)
			if err != nil {
				return err
			}
			if !unique {
				log.Warn("duplicate customer name", zap.String("name", input.Name))
				return customer.ErrNameTaken
			}
		}

		c.Name = input.Name
		c.Phone = optional(input.Phone)
		c.Address = optional(input.Address)
		c.UpdatedAt = time.Now()
		return uc.repo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	log.Info("customer updated")
	return c, nil
}

func (uc *customerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	log := uc.logger.With(zap.String("op", "DeleteCustomer"), zap.String("customer_id", id))
	if !validate.ID(id) {
		return customer.ErrNotFound
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := uc.repo.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return customer.ErrNotFound
		}

		hasOrders, err := uc.repo.HasOrders(ctx, id)
		if err != nil {
			return err
		}
		if hasOrders {
			return customer.ErrInUse
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		log.Warn("customer not deleted", zap.Error(err))
		return err
	}

	log.Info("customer deleted")
	return nil
}
