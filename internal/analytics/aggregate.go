package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const DefaultPopularLimit = 20

const unknownLabel = "Unknown"

// PopularItem is the per-title popularity of completed orders. Category
// comes from the first line that recorded one.
type PopularItem struct {
	Title         string          `json:"title"`
	Category      string          `json:"category"`
	OrderCount    int             `json:"order_count"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// DailyPoint is one day of the recent activity series.
type DailyPoint struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Summary is the dashboard projection over all orders.
type Summary struct {
	TotalOrders   int                       `json:"total_orders"`
	TotalRevenue  decimal.Decimal           `json:"total_revenue"`
	TodayOrders   int                       `json:"today_orders"`
	TodayRevenue  decimal.Decimal           `json:"today_revenue"`
	PendingOrders int                       `json:"pending_orders"`
	StatusCounts  map[model.OrderStatus]int `json:"status_counts"`
	Recent        []DailyPoint              `json:"recent"`
}

func isCompleted(f OrderFact) bool {
	return strings.EqualFold(strings.TrimSpace(f.Status), string(model.OrderStatusCompleted))
}

func isPending(f OrderFact) bool {
	return strings.EqualFold(strings.TrimSpace(f.Status), string(model.OrderStatusPending))
}

// factDate parses the fact's timestamp and logs the ones it has to skip.
func factDate(f OrderFact) (time.Time, bool) {
	d, ok := ParseDate(f.CreatedAt)
	if !ok {
		logger.Debug("Skipping order with unparseable date", map[string]interface{}{
			"created_at": f.CreatedAt,
			"status":     f.Status,
		})
	}
	return d, ok
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// TotalRevenue sums total_amount over completed orders.
func TotalRevenue(facts []OrderFact) decimal.Decimal {
	total := decimal.Zero
	for _, f := range facts {
		if isCompleted(f) {
			total = total.Add(f.TotalAmount)
		}
	}
	return total
}

// TodaysOrders counts orders created on today's date, any status.
func TodaysOrders(facts []OrderFact, now time.Time) int {
	today := dateOf(now)
	n := 0
	for _, f := range facts {
		if d, ok := factDate(f); ok && sameDay(d, today) {
			n++
		}
	}
	return n
}

// TodaysRevenue sums completed orders created today.
func TodaysRevenue(facts []OrderFact, now time.Time) decimal.Decimal {
	today := dateOf(now)
	total := decimal.Zero
	for _, f := range facts {
		if !isCompleted(f) {
			continue
		}
		if d, ok := factDate(f); ok && sameDay(d, today) {
			total = total.Add(f.TotalAmount)
		}
	}
	return total
}

func PendingOrders(facts []OrderFact) int {
	n := 0
	for _, f := range facts {
		if isPending(f) {
			n++
		}
	}
	return n
}

// MonthlyRevenue buckets completed revenue of the given year by month;
// index 0 is January.
func MonthlyRevenue(facts []OrderFact, year int) [12]decimal.Decimal {
	var months [12]decimal.Decimal
	for i := range months {
		months[i] = decimal.Zero
	}
	for _, f := range facts {
		if !isCompleted(f) {
			continue
		}
		d, ok := factDate(f)
		if !ok || d.Year() != year {
			continue
		}
		months[d.Month()-1] = months[d.Month()-1].Add(f.TotalAmount)
	}
	return months
}

// PopularItems ranks titles of completed orders by how many order lines
// mention them. Ties keep first-seen order. limit <= 0 uses DefaultPopularLimit.
func PopularItems(facts []OrderFact, limit int) []PopularItem {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}

	index := make(map[string]int)
	var items []PopularItem
	for _, f := range facts {
		if !isCompleted(f) {
			continue
		}
		for _, line := range f.Items {
			title := line.Title
			if title == "" {
				title = unknownLabel
			}
			i, seen := index[title]
			if !seen {
				i = len(items)
				index[title] = i
				items = append(items, PopularItem{Title: title, Category: unknownLabel, TotalRevenue: decimal.Zero})
			}
			if items[i].Category == unknownLabel && line.Category != "" {
				items[i].Category = string(line.Category)
			}
			items[i].OrderCount++
			items[i].TotalQuantity += line.Quantity
			items[i].TotalRevenue = items[i].TotalRevenue.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].OrderCount > items[b].OrderCount
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// RecentDays returns one point per day for the last n days, oldest first,
// today included. Every status counts toward Count; only completed orders
// add Revenue.
func RecentDays(facts []OrderFact, now time.Time, n int) []DailyPoint {
	if n <= 0 {
		return nil
	}
	today := dateOf(now)
	start := today.AddDate(0, 0, -(n - 1))

	points := make([]DailyPoint, n)
	for i := range points {
		points[i] = DailyPoint{Date: start.AddDate(0, 0, i).Format("2006-01-02"), Revenue: decimal.Zero}
	}
	for _, f := range facts {
		d, ok := factDate(f)
		if !ok || d.Before(start) || d.After(today) {
			continue
		}
		i := int(d.Sub(start).Hours() / 24)
		points[i].Count++
		if isCompleted(f) {
			points[i].Revenue = points[i].Revenue.Add(f.TotalAmount)
		}
	}
	return points
}

// Summarize builds the dashboard numbers in one pass per aggregate.
func Summarize(facts []OrderFact, now time.Time) Summary {
	counts := make(map[model.OrderStatus]int, len(model.OrderStatuses))
	for _, st := range model.OrderStatuses {
		counts[st] = 0
	}
	for _, f := range facts {
		if st, ok := model.ParseOrderStatus(f.Status); ok {
			counts[st]++
		}
	}

	return Summary{
		TotalOrders:   len(facts),
		TotalRevenue:  TotalRevenue(facts),
		TodayOrders:   TodaysOrders(facts, now),
		TodayRevenue:  TodaysRevenue(facts, now),
		PendingOrders: PendingOrders(facts),
		StatusCounts:  counts,
		Recent:        RecentDays(facts, now, 7),
	}
}
