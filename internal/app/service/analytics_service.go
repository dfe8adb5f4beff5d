package service

import (
	"time"

	"github.com/fooddash/fooddash-backend/internal/analytics"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// MonthlyRevenue is one calendar year of completed revenue, January first
type MonthlyRevenue struct {
	Year   int               `json:"year"`
	Months []decimal.Decimal `json:"months"`
	Total  decimal.Decimal   `json:"total"`
}

type AnalyticsService interface {
	Dashboard() (*analytics.Summary, error)
	MonthlyRevenue(year int) (*MonthlyRevenue, error)
	PopularItems(limit int) ([]analytics.PopularItem, error)
	TotalRevenue() (decimal.Decimal, error)
	TodaysRevenue() (decimal.Decimal, error)
	TodaysOrders() (int, error)
	PendingOrders() (int, error)
}

// analyticsService recomputes every figure from the stored orders on each call
type analyticsService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
}

func NewAnalyticsService(orderRepo repository.OrderRepository) AnalyticsService {
	return &analyticsService{orderRepo: orderRepo, now: time.Now}
}

func (s *analyticsService) facts() ([]analytics.OrderFact, error) {
	facts, err := s.orderRepo.ListFacts()
	if err != nil {
		logger.Error("Failed to load orders for analytics", err)
		return nil, err
	}
	return facts, nil
}

func (s *analyticsService) Dashboard() (*analytics.Summary, error) {
	facts, err := s.facts()
	if err != nil {
		return nil, err
	}
	summary := analytics.Summarize(facts, s.now())

	logger.Debug("Dashboard computed", map[string]interface{}{
		"total_orders":  summary.TotalOrders,
		"total_revenue": summary.TotalRevenue.StringFixed(2),
	})
	return &summary, nil
}

func (s *analyticsService) MonthlyRevenue(year int) (*MonthlyRevenue, error) {
	if year <= 0 {
		year = s.now().Year()
	}
	facts, err := s.facts()
	if err != nil {
		return nil, err
	}

	buckets := analytics.MonthlyRevenue(facts, year)
	result := &MonthlyRevenue{Year: year, Months: buckets[:], Total: decimal.Zero}
	for _, amount := range buckets {
		result.Total = result.Total.Add(amount)
	}
	return result, nil
}

func (s *analyticsService) PopularItems(limit int) ([]analytics.PopularItem, error) {
	facts, err := s.facts()
	if err != nil {
		return nil, err
	}
	return analytics.PopularItems(facts, limit), nil
}

func (s *analyticsService) TotalRevenue() (decimal.Decimal, error) {
	facts, err := s.facts()
	if err != nil {
		return decimal.Zero, err
	}
	return analytics.TotalRevenue(facts), nil
}

func (s *analyticsService) TodaysRevenue() (decimal.Decimal, error) {
	facts, err := s.facts()
	if err != nil {
		return decimal.Zero, err
	}
	return analytics.TodaysRevenue(facts, s.now()), nil
}

func (s *analyticsService) TodaysOrders() (int, error) {
	facts, err := s.facts()
	if err != nil {
		return 0, err
	}
	return analytics.TodaysOrders(facts, s.now()), nil
}

func (s *analyticsService) PendingOrders() (int, error) {
	facts, err := s.facts()
	if err != nil {
		return 0, err
	}
	return analytics.PendingOrders(facts), nil
}
