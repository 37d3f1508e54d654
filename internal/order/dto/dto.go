package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type OrderFilters struct {
	Status   model.OrderStatus
	Page     int
	PageSize int
}

// OrderEvent is the JSON payload of order events.
type OrderEvent struct {
	OrderID    string            `json:"order_id"`
	CustomerID string            `json:"customer_id"`
	Status     model.OrderStatus `json:"status"`
	Items      []OrderEventItem  `json:"items"`
	OccurredAt string            `json:"occurred_at"`
}

type OrderEventItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
