package order

import (
	"time"

	"github.com/Additional-Code/hiretrack/internal/entity"
)

const (
	// EventOrderCreated is published after an order is stored.
	EventOrderCreated = "order.created"
	// EventOrderDeleted is published after an order is removed.
	EventOrderDeleted = "order.deleted"
)

// OrderCreatedEvent is emitted when a new order is persisted.
type OrderCreatedEvent struct {
	ID            int64       `json:"id"`
	CustomerName  string      `json:"customer_name"`
	ReceiptNumber int64       `json:"receipt_number"`
	ItemHired     string      `json:"item_hired"`
	HowMany       int         `json:"how_many"`
	HiredOn       entity.Date `json:"hired_on"`
	ReturnOn      entity.Date `json:"return_on"`
	BoxesNeeded   int         `json:"boxes_needed"`
	RaffleNumber  int         `json:"raffle_number"`
	OccurredAt    time.Time   `json:"occurred_at"`
}

// OrderDeletedEvent is emitted when an order is removed.
type OrderDeletedEvent struct {
	ID            int64     `json:"id"`
	ReceiptNumber int64     `json:"receipt_number"`
	RaffleNumber  int       `json:"raffle_number"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func newCreatedEvent(o *entity.Order, at time.Time) OrderCreatedEvent {
	return OrderCreatedEvent{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		ReceiptNumber: o.ReceiptNumber,
		ItemHired:     o.ItemHired,
		HowMany:       o.HowMany,
		HiredOn:       o.HiredOn,
		ReturnOn:      o.ReturnOn,
		BoxesNeeded:   o.BoxesNeeded,
		RaffleNumber:  o.RaffleNumber,
		OccurredAt:    at,
	}
}
