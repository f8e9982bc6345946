package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once     sync.Once
	registry = prometheus.NewRegistry()

	defaultHistogramBucketsSeconds = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)
	vaultOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_operations_total",
			Help: "Count of vault operations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	exchangeRateGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vault_exchange_rate",
			Help: "Assets per share scaled by 1e9, as of the last state change.",
		},
	)
	poolTotalsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vault_pool_totals",
			Help: "Pool total assets and total shares as of the last state change.",
		},
		[]string{"kind"},
	)
	eventPublishFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_event_publish_failures_total",
			Help: "Count of vault events that could not be published after commit.",
		},
		[]string{"event_type"},
	)
	queueMessageCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_messages_processed_total",
			Help: "Count of processed queue messages by queue and outcome.",
		},
		[]string{"queue", "outcome"},
	)
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		registry.MustRegister(
			httpRequestDurationHistogram,
			vaultOperationCounter,
			exchangeRateGauge,
			poolTotalsGauge,
			eventPublishFailureCounter,
			queueMessageCounter,
		)
	})
}

// Router serves the registered metrics on /metrics.
func Router() *chi.Mux {
	metricsRouter := chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
	return metricsRouter
}

// StartServer serves the metrics router until ctx is done.
func StartServer(ctx context.Context, metricsPort int) error {
	Init()
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", metricsPort),
		Handler:           Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error shutting down metrics server")
		}
	}()

	log.Info().Msgf("Starting metrics server on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error starting metrics server on %s: %w", server.Addr, err)
	}
	return nil
}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Observe(duration)
	}
}

func RecordVaultOperation(operation string, outcome Outcome) {
	vaultOperationCounter.WithLabelValues(operation, outcome.String()).Inc()
}

func RecordPoolState(totalAssets, totalShares, exchangeRate uint64) {
	poolTotalsGauge.WithLabelValues("assets").Set(float64(totalAssets))
	poolTotalsGauge.WithLabelValues("shares").Set(float64(totalShares))
	exchangeRateGauge.Set(float64(exchangeRate))
}

func RecordEventPublishFailure(eventType int) {
	eventPublishFailureCounter.WithLabelValues(strconv.Itoa(eventType)).Inc()
}

func RecordQueueMessage(queueName string, outcome Outcome) {
	queueMessageCounter.WithLabelValues(queueName, outcome.String()).Inc()
}
