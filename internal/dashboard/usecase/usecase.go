package usecase

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/dashboard"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type dashboardUseCase struct {
	repo   dashboard.Repository
	tx     database.Transactor
	logger logger.ZapLogger
}

func NewDashboardUseCase(repo dashboard.Repository, tx database.Transactor, log logger.ZapLogger) dashboard.UseCase {
	return &dashboardUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func (uc *dashboardUseCase) GetDashboard(ctx context.Context) (*model.Dashboard, error) {
	var d *model.Dashboard
	err := uc.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		d, err = uc.repo.Get(ctx)
		return err
	})
	if err != nil {
		uc.logger.Error("dashboard read failed", zap.String("op", "GetDashboard"), zap.Error(err))
		return nil, err
	}
	return d, nil
}
