package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CategoryID string // Optional
	Name       string `validate:"required,max=255"`
	Quantity   int    `validate:"gte=0"`
	Price      decimal.Decimal
}

type UpdateProductInput struct {
	ID         string `validate:"required,uuid"`
	CategoryID string
	Name       string `validate:"required,max=255"`
	Quantity   int    `validate:"gte=0"`
	Price      decimal.Decimal
}
