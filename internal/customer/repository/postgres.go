package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/customer/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

const customerColumns = "id, name, phone, address, created_at, updated_at"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) conn(ctx context.Context) database.DBTX {
	return database.Conn(ctx, r.DB)
}

func (r *PGRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customer (id, name, phone, address, created_at, updated_at)
        VALUES (:id, :name, :phone, :address, :created_at, :updated_at)
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	query := `SELECT ` + customerColumns + ` FROM customer WHERE id = $1 LIMIT 1`
	err := r.conn(ctx).GetContext(ctx, &customer, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *PGRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.conn(ctx).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM customer WHERE id = $1)`, id)
	return exists, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	customers := []model.Customer{}
	var count int

	if err := r.conn(ctx).GetContext(ctx, &count, "SELECT count(*) FROM customer"); err != nil {
		return nil, 0, err
	}

	orderBy := "name ASC"
	if strings.ToLower(f.SortOrder) == "desc" {
		orderBy = "name DESC"
	}
	query := "SELECT " + customerColumns + " FROM customer ORDER BY " + orderBy

	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	if err := r.conn(ctx).SelectContext(ctx, &customers, query); err != nil {
		return nil, 0, err
	}
	return customers, count, nil
}

func (r *PGRepository) SearchByName(ctx context.Context, name string) ([]model.Customer, error) {
	customers := []model.Customer{}
	query := `SELECT ` + customerColumns + ` FROM customer WHERE name ILIKE $1 ORDER BY name ASC`
	err := r.conn(ctx).SelectContext(ctx, &customers, query, database.Contains(name))
	return customers, err
}

func (r *PGRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customer
        SET name = :name,
            phone = :phone,
            address = :address,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.conn(ctx).ExecContext(ctx, "DELETE FROM customer WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsNameUnique(ctx context.Context, name, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM customer WHERE name = $1`
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

func (r *PGRepository) HasOrders(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.conn(ctx).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM "order" WHERE customer_id = $1)`, id)
	return exists, err
}
