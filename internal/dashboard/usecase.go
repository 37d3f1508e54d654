package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	GetDashboard(ctx context.Context) (*model.Dashboard, error)
}
