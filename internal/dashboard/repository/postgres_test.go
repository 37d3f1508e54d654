package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReadsView(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	repo := NewPGRepository(sqlx.NewDb(raw, "pgx"))

	mock.ExpectQuery(regexp.QuoteMeta("FROM dashboard")).
		WillReturnRows(sqlmock.NewRows([]string{
			"total_customers", "total_categories", "total_products",
			"total_unpaid_orders", "total_paid_orders", "total_sales",
		}).AddRow(3, 2, 5, 1, 4, "123.50"))

	d, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.TotalCustomers)
	assert.Equal(t, int64(4), d.TotalPaidOrders)
	assert.True(t, decimal.RequireFromString("123.5").Equal(d.TotalSales))
	require.NoError(t, mock.ExpectationsWereMet())
}
