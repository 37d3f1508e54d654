package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	Get(ctx context.Context) (*model.Dashboard, error)
}
