package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// OrdersTotal tracks created/cancelled/rejected orders.
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Total number of order workflow outcomes",
		},
		[]string{"outcome"},
	)

	// OrderAmount tracks order totals in currency units.
	OrderAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_amount",
			Help:    "Order grand totals",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	// StockLevel tracks current product stock.
	StockLevel = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "product_stock_level",
			Help: "Current product stock level",
		},
		[]string{"product_id"},
	)

	// PaymentGatewayFailures tracks failed gateway calls.
	PaymentGatewayFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_gateway_failures_total",
			Help: "Total number of failed payment gateway calls",
		},
	)
)

// Middleware records request count and duration for every route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestsTotal.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}
