package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-inventory-service/internal/customer/dto"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewPGRepository(sqlx.NewDb(raw, "pgx")), mock
}

var columns = []string{"id", "name", "phone", "address", "created_at", "updated_at"}

func TestFindByIDMapsNullableColumns(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM customer WHERE id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("u1", "Ann", "555", nil, now, now))

	c, err := repo.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Ann", c.Name)
	require.NotNil(t, c.Phone)
	assert.Equal(t, "555", *c.Phone)
	assert.Nil(t, c.Address)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllWithoutPagination(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM customer")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`ORDER BY name ASC$`).
		WillReturnRows(sqlmock.NewRows(columns))

	cs, count, err := repo.FindAll(context.Background(), &dto.CustomerFilters{})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, cs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHasOrders(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM "order" WHERE customer_id = $1)`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	has, err := repo.HasOrders(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, has)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchByName(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE name ILIKE $1")).
		WithArgs("%ann%").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.SearchByName(context.Background(), "ann")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
