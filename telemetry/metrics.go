package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusInvalid = "invalid"
	StatusCached  = "cached"
)

var (
	RateFetchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_fetch_total",
			Help: "Total number of rate table fetches by base currency",
		},
		[]string{"base", "status"},
	)

	RateFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rate_fetch_duration_seconds",
			Help:    "Duration of rate table fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"base"},
	)

	ConversionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversions_total",
			Help: "Total number of conversion attempts",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(RateFetchCounter)
	prometheus.MustRegister(RateFetchDuration)
	prometheus.MustRegister(ConversionCounter)
}

func ObserveFetch(base string, started time.Time, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailed
	}

	RateFetchCounter.WithLabelValues(base, status).Inc()
	RateFetchDuration.WithLabelValues(base).Observe(time.Since(started).Seconds())
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("Starting HTTP server for Prometheus metrics", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("Failed to start metrics HTTP server", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("Shutting down metrics server")

	return server.Shutdown(shutdownCtx)
}
