package model

import "time"

type MovementType string

const (
	MovementOrderPlaced   MovementType = "order_placed"
	MovementOrderReturned MovementType = "order_returned"
)

// Valid reports whether t is one of the known movement types.
func (t MovementType) Valid() bool {
	switch t {
	case MovementOrderPlaced, MovementOrderReturned:
		return true
	}
	return false
}

type StockMovement struct {
	ID             string       `db:"id"`
	ProductID      string       `db:"product_id"`
	MovementType   MovementType `db:"movement_type"`
	QuantityChange int          `db:"quantity_change"`
	QuantityBefore int          `db:"quantity_before"`
	QuantityAfter  int          `db:"quantity_after"`
	ReferenceType  *string      `db:"reference_type"`
	ReferenceID    *string      `db:"reference_id"`
	Notes          string       `db:"notes"`
	CreatedAt      time.Time    `db:"created_at"`
	ProductName    string       `db:"product_name"` // Joined data
}

// Stock is the lockable view of a product's quantity.
type Stock struct {
	ProductID string `db:"id"`
	Name      string `db:"name"`
	Quantity  int    `db:"quantity"`
}
