package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusUnpaid OrderStatus = "UNPAID"
	OrderStatusPaid   OrderStatus = "PAID"
)

func (s OrderStatus) Valid() bool {
	return s == OrderStatusUnpaid || s == OrderStatusPaid
}

type Order struct {
	BaseModel
	CustomerID   string      `db:"customer_id" json:"customer_id"`
	CustomerName string      `db:"customer_name" json:"customer_name"` // Joined data
	Status       OrderStatus `db:"status" json:"status"`
	Date         time.Time   `db:"order_date" json:"order_date"`
	Items        []OrderItem `db:"-" json:"items"`
}

// Total sums price * quantity over the items, using the current product prices.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

type OrderItem struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"order_id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Position    int             `db:"position" json:"-"`
	ProductName string          `db:"product_name" json:"product_name"` // Joined data
	Price       decimal.Decimal `db:"price" json:"price"`               // Joined data
}

// Equal compares line items by value: same product and same quantity.
func (i OrderItem) Equal(other OrderItem) bool {
	return i.ProductID == other.ProductID && i.Quantity == other.Quantity
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Document is a rendered, downloadable file.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
	Size        int64
}
