package models

import "time"

// StatusTransition - запись журнала смены статуса, сделанной через шлюз.
type StatusTransition struct {
	ID        int64       `json:"id"`
	OrderID   int64       `json:"order_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
