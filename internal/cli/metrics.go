package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsReadHeaderTimeout = 5 * time.Second
	metricsShutdownTimeout   = 2 * time.Second
)

// newMetricsHandler returns the mux served on --metrics-addr.
func newMetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// serveMetrics serves Prometheus metrics on addr until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening for metrics on %s: %w", addr, err)
	}
	return serveMetricsOn(ctx, lis)
}

func serveMetricsOn(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           newMetricsHandler(),
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	logger.Info().Ctx(ctx).Str("addr", lis.Addr().String()).Msg("serving metrics")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stopping metrics server: %w", err)
	}
	logger.Debug().Ctx(ctx).Msg("metrics server stopped")
	return nil
}
