package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adterminal_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adterminal_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "adterminal_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adterminal_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"limiter"},
	)

	// Integration feed
	PublicAdsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adterminal_public_ads_served_total",
			Help: "Number of visible ads returned by the integration API",
		},
		[]string{"scope"}, // "all" or "category"
	)

	// Assets
	AssetOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adterminal_asset_operations_total",
			Help: "Asset store operations by backend, operation and outcome",
		},
		[]string{"backend", "operation", "result"},
	)

	// Auth
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adterminal_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"result"},
	)
)

// RecordAPIRequest records one finished request.
func RecordAPIRequest(method, route string, statusCode int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordRateLimitHit(limiter string) {
	APIRateLimitHits.WithLabelValues(limiter).Inc()
}

func RecordPublicAdsServed(scope string, n int) {
	PublicAdsServed.WithLabelValues(scope).Add(float64(n))
}

func RecordAssetOperation(backend, operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	AssetOperations.WithLabelValues(backend, operation, result).Inc()
}

func RecordLogin(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	LoginAttempts.WithLabelValues(result).Inc()
}
