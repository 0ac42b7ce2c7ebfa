package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chabad360/oscwire/internal/config"
	"github.com/chabad360/oscwire/osc"
)

func newListenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print every packet received on the listen address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runListener(ctx, cfg, logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("addr", "", "listen address (host:port)")
	cmd.Flags().Bool("metrics", false, "serve Prometheus metrics")
	cmd.Flags().String("metrics-addr", "", "metrics listen address")

	return cmd
}

func runListener(ctx context.Context, cfg *config.Config, logger zerolog.Logger, out io.Writer) error {
	var metrics *osc.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		metrics = osc.NewMetrics(reg)

		srv := startMetricsServer(cfg.Metrics, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	conn, err := net.ListenPacket("udp", cfg.Listen.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", cfg.Listen.Addr)
	}
	defer conn.Close()

	logger.Info().Stringer("addr", conn.LocalAddr()).Msg("listening for OSC packets")

	var mu sync.Mutex
	server := &osc.Server{
		Handler: osc.HandlerFunc(func(p osc.Packet, a net.Addr) {
			mu.Lock()
			defer mu.Unlock()
			logger.Debug().Stringer("from", a).Msg("packet received")
			describe(out, p, "")
		}),
		ReadTimeout:   cfg.Listen.ReadTimeout,
		Logger:        logger,
		Metrics:       metrics,
		DecodeOptions: cfg.DecodeOptions(logger),
	}

	if err := server.Serve(ctx, conn); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func startMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("path", cfg.Path).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return srv
}
