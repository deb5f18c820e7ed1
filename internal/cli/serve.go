package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/greendilt/digicarbon/internal/config"
	"github.com/greendilt/digicarbon/internal/logging"
	"github.com/greendilt/digicarbon/internal/server"
	"github.com/greendilt/digicarbon/internal/session"
)

const (
	shutdownTimeout      = 10 * time.Second
	defaultSweepInterval = time.Minute
)

// NewServeCmd creates the serve command, which runs the HTTP API.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the questionnaire HTTP API",
		Long: `Serve the questionnaire over HTTP. Each client creates a session and drives
it through role selection, data entry and results. Idle sessions expire after
server.session_ttl. Prometheus metrics are exposed on /metrics.`,
		Example: `  # Listen on the configured address
  digicarbon serve

  # Listen on all interfaces
  digicarbon serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", addr, err)
			}

			mgr := session.NewManager(cfg.SessionDefaults(), cfg.Server.SessionTTL)
			return serve(ctx, ln, mgr, sweepInterval(cfg.Server.SessionTTL))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "Listen address; defaults to server.addr from the configuration")

	return cmd
}

// sweepInterval checks for idle sessions at least twice per TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	if half := ttl / 2; half > 0 && half < defaultSweepInterval {
		return half
	}
	return defaultSweepInterval
}

// serve runs the API on ln and the session sweeper until ctx is done, then
// shuts the server down gracefully.
func serve(ctx context.Context, ln net.Listener, mgr *session.Manager, interval time.Duration) error {
	log := logging.FromContext(ctx)
	srv := server.NewServer(mgr, server.WithLogger(*log))
	httpServer := &http.Server{
		Handler:           srv.Router(),
		ReadHeaderTimeout: server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mgr.Run(gctx, interval)
		return nil
	})
	g.Go(func() error {
		log.Info().Ctx(ctx).
			Str(logging.FieldComponent, "server").
			Str("addr", ln.Addr().String()).
			Msg("http listening")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown error: %w", err)
		}
		log.Info().Ctx(ctx).
			Str(logging.FieldComponent, "server").
			Int("sessions", mgr.Len()).
			Msg("http server stopped")
		return nil
	})
	return g.Wait()
}
