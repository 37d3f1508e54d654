package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

const selectOrder = `
    SELECT o.id, o.customer_id, o.status, o.order_date, o.created_at, o.updated_at,
           c.name AS customer_name
    FROM "order" o
    JOIN customer c ON c.id = o.customer_id`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) conn(ctx context.Context) database.DBTX {
	return database.Conn(ctx, r.DB)
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO "order" (id, customer_id, status, order_date, created_at, updated_at)
        VALUES (:id, :customer_id, :status, :order_date, :created_at, :updated_at)
    `
	if _, err := r.conn(ctx).NamedExecContext(ctx, query, o); err != nil {
		return err
	}
	return r.insertItems(ctx, o.Items)
}

func (r *PGRepository) insertItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
        INSERT INTO order_item (id, order_id, product_id, quantity, position)
        VALUES (:id, :order_id, :product_id, :quantity, :position)
    `
	if _, err := r.conn(ctx).NamedExecContext(ctx, query, items); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.conn(ctx).GetContext(ctx, &o, selectOrder+` WHERE o.id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	orders := []model.Order{o}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// loadItems fills Items for every order with one query.
func (r *PGRepository) loadItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = []model.OrderItem{}
	}

	query, args, err := sqlx.In(`
        SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.position,
               p.name AS product_name, p.price
        FROM order_item oi
        JOIN product p ON p.id = oi.product_id
        WHERE oi.order_id IN (?)
        ORDER BY oi.order_id, oi.position
    `, ids)
	if err != nil {
		return err
	}

	db := r.conn(ctx)
	var items []model.OrderItem
	if err := db.SelectContext(ctx, &items, db.Rebind(query), args...); err != nil {
		return err
	}
	for _, item := range items {
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return nil
}

func (r *PGRepository) FindAllByStatus(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	orders := []model.Order{}
	var count int

	db := r.conn(ctx)
	if err := db.GetContext(ctx, &count, `SELECT count(*) FROM "order" WHERE status = $1`, f.Status); err != nil {
		return nil, 0, err
	}

	query := selectOrder + ` WHERE o.status = $1 ORDER BY o.order_date ASC, o.id`
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	if err := db.SelectContext(ctx, &orders, query, f.Status); err != nil {
		return nil, 0, err
	}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *PGRepository) FindByStatusAndCustomerName(ctx context.Context, status model.OrderStatus, customerName string) ([]model.Order, error) {
	orders := []model.Order{}
	query := selectOrder + ` WHERE o.status = $1 AND c.name ILIKE $2 ORDER BY o.order_date ASC, o.id`
	if err := r.conn(ctx).SelectContext(ctx, &orders, query, status, database.Contains(customerName)); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PGRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE "order"
        SET customer_id = :customer_id,
            status = :status,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err := r.conn(ctx).NamedExecContext(ctx, query, o); err != nil {
		return err
	}
	if _, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM order_item WHERE order_id = $1`, o.ID); err != nil {
		return err
	}
	return r.insertItems(ctx, o.Items)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	db := r.conn(ctx)
	if _, err := db.ExecContext(ctx, `DELETE FROM order_item WHERE order_id = $1`, id); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, `DELETE FROM "order" WHERE id = $1`, id)
	return err
}
