package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
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

func (r *PGRepository) conn(ctx context.Context) database.DBTX {
	return database.Conn(ctx, r.DB)
}

func (r *PGRepository) getStock(ctx context.Context, query, productID string) (*model.Stock, error) {
	var stock model.Stock
	err := r.conn(ctx).GetContext(ctx, &stock, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

func (r *PGRepository) GetStock(ctx context.Context, productID string) (*model.Stock, error) {
	return r.getStock(ctx, `SELECT id, name, quantity FROM product WHERE id = $1`, productID)
}

func (r *PGRepository) GetStockForUpdate(ctx context.Context, productID string) (*model.Stock, error) {
	return r.getStock(ctx, `SELECT id, name, quantity FROM product WHERE id = $1 FOR UPDATE`, productID)
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	items := []model.StockMovement{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "m.product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "m.movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	db := r.conn(ctx)

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM stock_movement m"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.GetContext(ctx, &count, db.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT m.id, m.product_id, m.movement_type, m.quantity_change, m.quantity_before,
               m.quantity_after, m.reference_type, m.reference_id, m.notes, m.created_at,
               p.name AS product_name
        FROM stock_movement m
        JOIN product p ON p.id = m.product_id` + whereClause + ` ORDER BY m.created_at DESC, m.id`
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.SelectContext(ctx, &items, db.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, m *model.StockMovement) error {
	db := r.conn(ctx)

	// 1. Update stock, never below zero
	res, err := db.ExecContext(ctx, `
        UPDATE product
        SET quantity = quantity + $1, updated_at = $2
        WHERE id = $3 AND quantity + $1 >= 0
    `, m.QuantityChange, m.CreatedAt, m.ProductID)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: product %s", inventory.ErrInsufficientStock, m.ProductID)
	}

	// 2. Log movement
	insertLogQuery := `
        INSERT INTO stock_movement (
            id, product_id, movement_type, quantity_change, quantity_before,
            quantity_after, reference_type, reference_id, notes, created_at
        )
        VALUES (
            :id, :product_id, :movement_type, :quantity_change, :quantity_before,
            :quantity_after, :reference_type, :reference_id, :notes, :created_at
        )
    `
	if _, err := db.NamedExecContext(ctx, insertLogQuery, m); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}
	return nil
}
