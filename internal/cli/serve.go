package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/kiosk/pkg/adapters/http"
)

// ShutdownTimeout bounds how long outstanding requests get after a signal.
const ShutdownTimeout = 5 * time.Second

// NewHTTPServer wires the REST API, SSE stream and /metrics for rt.
func NewHTTPServer(rt *Runtime, port int) *http.Server {
	handler := httpAdapter.NewHandler(rt.Engine,
		httpAdapter.WithLogger(rt.Logger),
		httpAdapter.WithMetrics(rt.Registry),
	)
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, rt *Runtime) error {
	serverErrors := make(chan error, 1)
	go func() {
		rt.Logger.Info("Starting Kiosk server", "address", srv.Addr, "catalog", rt.Engine.Name)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		rt.Logger.Info("Start shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			rt.Logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "error", err)
			if cerr := srv.Close(); cerr != nil {
				return fmt.Errorf("error killing server: %w", cerr)
			}
		}
		rt.Logger.Info("Kiosk server stopped gracefully")
		return nil
	}
}
