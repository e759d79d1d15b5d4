package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Run serves handler on cfg.Address and blocks until ctx is canceled or the
// server fails. In-flight requests get shutdownTimeout to finish.
func Run(ctx context.Context, cfg config.HTTPConfig, handler http.Handler, log *logger.Logger) error {
	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("listen http %s: %w", cfg.Address, err)
	}
	return serve(ctx, lis, newServer(cfg, handler), log)
}

func newServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		srv.ReadTimeout = timeout
		srv.WriteTimeout = timeout
		srv.Handler = http.TimeoutHandler(handler, timeout, `{"error":"timeout","message":"request timed out"}`)
	}
	return srv
}

func serve(ctx context.Context, lis net.Listener, srv *http.Server, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(lis) }()
	log.Info("HTTP", "listening on "+lis.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("HTTP", "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
