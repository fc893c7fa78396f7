package entity

import (
	"github.com/uptrace/bun"
)

const (
	// BoxCapacity is how many hired items fit in one storage box.
	BoxCapacity = 25
	// RaffleMax is the inclusive upper bound of a raffle draw.
	RaffleMax = 1000
)

// Order is a single equipment hire stored in the local database.
type Order struct {
	bun.BaseModel `bun:"table:customer_orders"`

	ID            int64  `bun:",pk,autoincrement" json:"id"`
	CustomerName  string `bun:"customer_name,notnull" json:"customer_name"`
	ReceiptNumber int64  `bun:"receipt_number,notnull" json:"receipt_number"`
	ItemHired     string `bun:"item_hired,notnull" json:"item_hired"`
	HowMany       int    `bun:"how_many,notnull" json:"how_many"`
	HiredOn       Date   `bun:"hired_on,type:text,notnull" json:"hired_on"`
	ReturnOn      Date   `bun:"return_on,type:text,notnull" json:"return_on"`
	BoxesNeeded   int    `bun:"boxes_needed,notnull" json:"boxes_needed"`
	RaffleNumber  int    `bun:"raffle_number,notnull" json:"raffle_number"`
}

// BoxesNeeded returns ceil(howMany / BoxCapacity).
func BoxesNeeded(howMany int) int {
	return (howMany + BoxCapacity - 1) / BoxCapacity
}

// IsOverdue reports whether the order should have been returned before asOf.
func (o *Order) IsOverdue(asOf Date) bool {
	return o.ReturnOn.Before(asOf)
}
