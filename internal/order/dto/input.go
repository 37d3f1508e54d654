package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type OrderItemInput struct {
	ProductID string `validate:"required"`
	Quantity  int    `validate:"gt=0"`
}

type CreateOrderInput struct {
	CustomerID string            `validate:"required"`
	Status     model.OrderStatus `validate:"omitempty,oneof=UNPAID PAID"` // Defaults to UNPAID
	Items      []OrderItemInput  `validate:"min=1,dive"`
}

type UpdateOrderInput struct {
	ID         string            `validate:"required,uuid"`
	CustomerID string            `validate:"required"`
	Status     model.OrderStatus `validate:"required,oneof=UNPAID PAID"`
	Items      []OrderItemInput  `validate:"min=1,dive"`
}
