package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/rewind/pkg/adapters/http"
	"github.com/aretw0/rewind/pkg/observability"
	"github.com/aretw0/rewind/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPHandler builds the HTTP API for a fresh counter store.
// When metrics are enabled the store feeds a dedicated registry served on
// /metrics.
func NewHTTPHandler(cfg Config) (http.Handler, error) {
	logger := NewLogger(cfg.Log)

	var storeOpts []store.Option
	handlerOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithRequestValidation(cfg.Server.Validation),
	}
	if cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m, err := observability.NewMetrics(reg)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		storeOpts = append(storeOpts, store.WithLifecycleHooks(m.Hooks()))
		handlerOpts = append(handlerOpts, httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	s := NewCounterStore(cfg, logger, storeOpts...)
	return httpAdapter.NewHandler(s, handlerOpts...)
}

// Serve runs the HTTP API until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, cfg Config) error {
	logger := NewLogger(cfg.Log)
	handler, err := NewHTTPHandler(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting Rewind Server", "address", srv.Addr, "metrics", cfg.Server.Metrics)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
		logger.Info("Rewind Server stopped gracefully")
		return nil
	}
}
