package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Name         string          `db:"name" json:"name"`
	CategoryID   *string         `db:"category_id" json:"category_id"` // Nullable
	Quantity     int             `db:"quantity" json:"quantity"`
	Price        decimal.Decimal `db:"price" json:"price"`
	CategoryName *string         `db:"category_name" json:"category_name"` // Joined data
}
