package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/dashboard/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	d   *model.Dashboard
	err error
}

func (s stubRepo) Get(context.Context) (*model.Dashboard, error) {
	return s.d, s.err
}

func TestGetDashboard(t *testing.T) {
	want := &model.Dashboard{TotalCustomers: 2, TotalSales: decimal.NewFromInt(10)}
	uc := usecase.NewDashboardUseCase(stubRepo{d: want}, database.NoopTransactor{}, logger.NewNop())

	got, err := uc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetDashboardError(t *testing.T) {
	boom := errors.New("boom")
	uc := usecase.NewDashboardUseCase(stubRepo{err: boom}, database.NoopTransactor{}, logger.NewNop())

	_, err := uc.GetDashboard(context.Background())
	assert.ErrorIs(t, err, boom)
}
