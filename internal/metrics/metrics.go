package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Orders successfully placed
	ordersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fooddash",
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed",
	})

	// Order status transitions, labelled by from and to status
	orderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fooddash",
			Name:      "order_status_transitions_total",
			Help:      "Total number of order status transitions",
		},
		[]string{"from", "to"},
	)

	orderRevenue = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fooddash",
		Name:      "orders_placed_amount_total",
		Help:      "Sum of order totals at checkout",
	})

	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fooddash",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fooddash",
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	registerOnce sync.Once
)

// Init registers all collectors with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ordersPlaced)
		prometheus.MustRegister(orderTransitions)
		prometheus.MustRegister(orderRevenue)
		prometheus.MustRegister(requestCount)
		prometheus.MustRegister(requestDuration)
	})
}

func RecordOrderPlaced(total float64) {
	ordersPlaced.Inc()
	if total > 0 {
		orderRevenue.Add(total)
	}
}

func RecordTransition(from, to string) {
	orderTransitions.WithLabelValues(from, to).Inc()
}

// Middleware records count and latency per matched route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestCount.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for scraping
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
