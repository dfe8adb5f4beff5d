package analytics

import (
	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// OrderFact is the slice of an order the aggregates need. CreatedAt is kept
// as the raw value read from storage and parsed with ParseDate.
type OrderFact struct {
	Status      string
	TotalAmount decimal.Decimal
	Items       []model.OrderLineSnapshot
	CreatedAt   interface{}
}
