package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/storage"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"github.com/shopspring/decimal"
)

const (
	receiptWidth         = 50
	receiptDateLayout    = "01/02/2006 • 03:04 PM"
	receiptKeyTimeLayout = "20060102_150405"
)

type ReceiptService interface {
	Render(order *model.Order) string
	Save(ctx context.Context, order *model.Order) (string, error)
}

type receiptService struct {
	store          storage.ReceiptStore
	currencySymbol string
	now            func() time.Time
}

func NewReceiptService(store storage.ReceiptStore, currencySymbol string) ReceiptService {
	return &receiptService{
		store:          store,
		currencySymbol: currencySymbol,
		now:            time.Now,
	}
}

// ReceiptKey is the object key a receipt is stored under
func ReceiptKey(orderNumber string, at time.Time) string {
	return fmt.Sprintf("receipts/order_%s_%s.txt", orderNumber, at.Format(receiptKeyTimeLayout))
}

func (s *receiptService) money(amount decimal.Decimal) string {
	return util.FormatPrice(s.currencySymbol, amount)
}

func (s *receiptService) Render(order *model.Order) string {
	heavy := strings.Repeat("=", receiptWidth)
	light := strings.Repeat("-", receiptWidth)

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("FOOD DASH RECEIPT")
	line(heavy)
	line("Order Number: %s", order.OrderNumber)
	line("Order ID: %d", order.ID)
	line("Date: %s", order.CreatedAt.Format(receiptDateLayout))
	line(light)
	line("Customer: %s", order.CustomerName)
	line("Email: %s", order.CustomerEmail)
	line("Address: %s", order.CustomerAddress)
	line(light)
	line("ITEMS:")
	for _, item := range order.Items {
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		line("%s x%d", item.Title, item.Quantity)
		line("  %s each = %s", s.money(item.Price), s.money(lineTotal))
	}
	line(light)
	line("Subtotal: %s", s.money(order.Subtotal))
	line("Delivery Fee: %s", s.money(order.DeliveryFee))
	line("TOTAL: %s", s.money(order.TotalAmount))
	line(heavy)
	line("Status: %s", order.Status.Label())
	line("Estimated Delivery: 30-45 minutes")
	line("Thank you for ordering with Food Dash!")

	return b.String()
}

// Save renders the receipt and hands it to the configured store
func (s *receiptService) Save(ctx context.Context, order *model.Order) (string, error) {
	key := ReceiptKey(order.OrderNumber, s.now())
	location, err := s.store.SaveReceipt(ctx, key, []byte(s.Render(order)))
	if err != nil {
		logger.Error("Failed to save receipt", err, map[string]interface{}{
			"order_number": order.OrderNumber,
			"key":          key,
		})
		return "", err
	}

	logger.Info("Receipt saved", map[string]interface{}{
		"order_number": order.OrderNumber,
		"location":     location,
	})
	return location, nil
}
