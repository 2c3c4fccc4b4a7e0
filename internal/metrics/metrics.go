package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	ordersSettledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_orders_settled_total",
			Help: "Orders committed, by payment method.",
		},
		[]string{"payment_method"},
	)

	barcodeScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_barcode_scans_total",
			Help: "Scanned codes looked up against the catalogue, by outcome.",
		},
		[]string{"result"},
	)

	priceChangesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_price_changes_total",
			Help: "Price history records opened by product updates.",
		},
	)
)

// Scan outcomes used as the result label of pos_barcode_scans_total.
const (
	ScanWeighted = "weighted"
	ScanStandard = "standard"
	ScanMiss     = "miss"
)

func RecordOrderSettled(method string) {
	ordersSettledTotal.WithLabelValues(method).Inc()
}

func RecordBarcodeScan(result string) {
	barcodeScansTotal.WithLabelValues(result).Inc()
}

func RecordPriceChange() {
	priceChangesTotal.Inc()
}

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		pathPattern := RouteLabel(r.URL.Path)

		defer func() {

			duration := time.Since(start)
			statusCodeStr := strconv.Itoa(rw.statusCode)

			httpRequestsTotal.WithLabelValues(statusCodeStr, r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
			httpRequestsInFlight.Dec()

		}()

		next.ServeHTTP(rw, r)

	})
}

// RouteLabel collapses ids and scanned codes in a path so label cardinality
// stays bounded: /api/v1/products/scan/2100502012506 -> /api/v1/products/scan/{code}.
func RouteLabel(path string) string {
	segments := strings.Split(path, "/")

	for i, seg := range segments {
		switch {
		case seg == "":
		case uuid.Validate(seg) == nil:
			segments[i] = "{id}"
		case isDigits(seg):
			segments[i] = "{code}"
		}
	}

	return strings.Join(segments, "/")
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
