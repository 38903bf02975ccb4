package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dispatchTotal         *prometheus.CounterVec
	dispatchErrors        *prometheus.CounterVec
	resourceUsed          prometheus.Histogram
	treasuryBalance       prometheus.Gauge
	notificationsAppended prometheus.Counter
)

func Init(serviceName string) {
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "dispatch_total",
			Help:      "Total committed batch dispatches",
		},
		[]string{"entry"},
	)

	dispatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "dispatch_errors_total",
			Help:      "Dispatch operations aborted before commit",
		},
		[]string{"entry"},
	)

	resourceUsed = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "dispatch_resource_used_microseconds",
		Help:      "Measured resource usage recorded on committed batches",
		Buckets:   prometheus.ExponentialBuckets(50, 2, 12),
	})

	treasuryBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: serviceName,
		Name:      "treasury_balance_units",
		Help:      "Accumulated fee balance in fee units",
	})

	notificationsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "notifications_appended_total",
		Help:      "Records appended to the notification log",
	})
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware instruments every request with count and duration.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if httpRequests == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		httpRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// ObserveDispatch records the outcome of one dispatch entry point.
func ObserveDispatch(entry string, resourceMicros uint64, err error) {
	if dispatchTotal == nil {
		return
	}
	if err != nil {
		dispatchErrors.WithLabelValues(entry).Inc()
		return
	}
	dispatchTotal.WithLabelValues(entry).Inc()
	resourceUsed.Observe(float64(resourceMicros))
}

// SetTreasuryBalance publishes the current fee balance.
func SetTreasuryBalance(balance uint64) {
	if treasuryBalance != nil {
		treasuryBalance.Set(float64(balance))
	}
}

// AddNotifications counts appended notification records.
func AddNotifications(n int) {
	if notificationsAppended != nil {
		notificationsAppended.Add(float64(n))
	}
}
