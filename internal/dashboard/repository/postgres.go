package repository

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// Get reads the dashboard view, which always yields exactly one row.
func (r *PGRepository) Get(ctx context.Context) (*model.Dashboard, error) {
	query := `
        SELECT total_customers, total_categories, total_products,
               total_unpaid_orders, total_paid_orders, total_sales
        FROM dashboard
    `
	var d model.Dashboard
	if err := database.Conn(ctx, r.DB).GetContext(ctx, &d, query); err != nil {
		return nil, err
	}
	return &d, nil
}
