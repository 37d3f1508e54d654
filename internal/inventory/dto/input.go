package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type AdjustStockInput struct {
	ProductID     string             `validate:"required"`
	Quantity      int                `validate:"gt=0"`
	MovementType  model.MovementType `validate:"required"`
	ReferenceType string             // 'order'
	ReferenceID   string
	Notes         string
}
