package seeder

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/hiretrack/internal/entity"
	form "github.com/Additional-Code/hiretrack/internal/form/order"
	ordersvc "github.com/Additional-Code/hiretrack/internal/service/order"
)

// Module provides the Seeder to Fx.
var Module = fx.Provide(New)

// Orders is the demo data; every entry passes form validation.
var Orders = []map[form.Field]string{
	{
		form.FieldCustomerName:  "Aroha Ngata",
		form.FieldReceiptNumber: "100231",
		form.FieldItemHired:     "Folding chairs",
		form.FieldHowMany:       "120",
		form.FieldHiredOn:       "2025-03-18",
		form.FieldReturnOn:      "2025-03-20",
	},
	{
		form.FieldCustomerName:  "Sam Whitfield",
		form.FieldReceiptNumber: "100232",
		form.FieldItemHired:     "Trestle tables",
		form.FieldHowMany:       "14",
		form.FieldHiredOn:       "2025-03-21",
		form.FieldReturnOn:      "2025-03-24",
	},
	{
		form.FieldCustomerName:  "Mere Paki",
		form.FieldReceiptNumber: "100233",
		form.FieldItemHired:     "Party lights",
		form.FieldHowMany:       "500",
		form.FieldHiredOn:       "2025-04-01",
		form.FieldReturnOn:      "2025-04-02",
	},
}

// OrderSubmitter accepts a filled in order form.
type OrderSubmitter interface {
	Submit(ctx context.Context, f *form.OrderForm) (*entity.Order, error)
}

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	orders OrderSubmitter
	logger *zap.Logger
}

// New constructs a Seeder that goes through the order service, so seeded
// rows get boxes and raffle numbers like any other order.
func New(svc *ordersvc.Service, logger *zap.Logger) *Seeder {
	return &Seeder{orders: svc, logger: logger}
}

// NewWith builds a Seeder over any submitter.
func NewWith(orders OrderSubmitter, logger *zap.Logger) *Seeder {
	return &Seeder{orders: orders, logger: logger}
}

// Orders inserts the demo orders and returns them as stored.
func (s *Seeder) Orders(ctx context.Context) ([]*entity.Order, error) {
	stored := make([]*entity.Order, 0, len(Orders))
	for _, sample := range Orders {
		f := form.New()
		for field, value := range sample {
			f.Set(field, value)
		}
		order, err := s.orders.Submit(ctx, f)
		if err != nil {
			return stored, err
		}
		stored = append(stored, order)
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", len(stored)))
	}
	return stored, nil
}
