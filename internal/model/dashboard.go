package model

import "github.com/shopspring/decimal"

type Dashboard struct {
	TotalCustomers    int64           `db:"total_customers"`
	TotalCategories   int64           `db:"total_categories"`
	TotalProducts     int64           `db:"total_products"`
	TotalUnpaidOrders int64           `db:"total_unpaid_orders"`
	TotalPaidOrders   int64           `db:"total_paid_orders"`
	TotalSales        decimal.Decimal `db:"total_sales"`
}
