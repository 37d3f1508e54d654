package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
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

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO category (id, name, created_at, updated_at)
        VALUES (:id, :name, :created_at, :updated_at)
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	query := `SELECT id, name, created_at, updated_at FROM category WHERE id = $1 LIMIT 1`
	err := r.conn(ctx).GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	categories := []model.Category{}
	var count int

	if err := r.conn(ctx).GetContext(ctx, &count, "SELECT count(*) FROM category"); err != nil {
		return nil, 0, err
	}

	orderBy := "name ASC"
	if strings.ToLower(f.SortOrder) == "desc" {
		orderBy = "name DESC"
	}
	query := "SELECT id, name, created_at, updated_at FROM category ORDER BY " + orderBy

	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	if err := r.conn(ctx).SelectContext(ctx, &categories, query); err != nil {
		return nil, 0, err
	}
	return categories, count, nil
}

func (r *PGRepository) SearchByName(ctx context.Context, name string) ([]model.Category, error) {
	categories := []model.Category{}
	query := `SELECT id, name, created_at, updated_at FROM category WHERE name ILIKE $1 ORDER BY name ASC`
	err := r.conn(ctx).SelectContext(ctx, &categories, query, database.Contains(name))
	return categories, err
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE category
        SET name = :name,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.conn(ctx).ExecContext(ctx, "DELETE FROM category WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsNameUnique(ctx context.Context, name, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM category WHERE name = $1`
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

func (r *PGRepository) DetachProducts(ctx context.Context, id string) (int64, error) {
	res, err := r.conn(ctx).ExecContext(ctx, "UPDATE product SET category_id = NULL, updated_at = now() WHERE category_id = $1", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
