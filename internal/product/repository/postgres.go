package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

const selectProduct = `
    SELECT p.id, p.name, p.category_id, p.quantity, p.price, p.created_at, p.updated_at,
           c.name AS category_name
    FROM product p
    LEFT JOIN category c ON c.id = p.category_id`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) conn(ctx context.Context) database.DBTX {
	return database.Conn(ctx, r.DB)
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO product (id, name, category_id, quantity, price, created_at, updated_at)
        VALUES (:id, :name, :category_id, :quantity, :price, :created_at, :updated_at)
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := selectProduct + ` WHERE p.id = $1 LIMIT 1`
	err := r.conn(ctx).GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	products := []model.Product{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != "" {
		conditions = append(conditions, "p.category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "p.name ILIKE :search")
		args["search"] = database.Contains(f.SearchQuery)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	db := r.conn(ctx)

	// Count
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM product p"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.GetContext(ctx, &count, db.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	// List
	orderBy := "p.name ASC"
	if strings.ToLower(f.SortOrder) == "desc" {
		orderBy = "p.name DESC"
	}
	query := fmt.Sprintf("%s%s ORDER BY %s", selectProduct, whereClause, orderBy)

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
	if err := db.SelectContext(ctx, &products, db.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE product
        SET name = :name,
            category_id = :category_id,
            quantity = :quantity,
            price = :price,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.conn(ctx).ExecContext(ctx, "DELETE FROM product WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsNameUnique(ctx context.Context, name, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM product WHERE name = $1`
	args := []interface{}{name}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	if err := r.conn(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) CategoryExists(ctx context.Context, categoryID string) (bool, error) {
	var exists bool
	err := r.conn(ctx).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM category WHERE id = $1)`, categoryID)
	return exists, err
}

func (r *PGRepository) IsReferenced(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.conn(ctx).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM order_item WHERE product_id = $1)`, id)
	return exists, err
}
