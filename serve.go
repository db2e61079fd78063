package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/surajsub/workflow-dispatch/handlers"
	"github.com/surajsub/workflow-dispatch/logger"
	"github.com/surajsub/workflow-dispatch/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an HTTP API that triggers dispatches on request",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup("info")
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("address"); addr != "" {
			cfg.Server.Address = addr
		}

		zl, err := logger.NewZap(cfg.Log.Level)
		if err != nil {
			return err
		}
		accessLog := logger.NewZapAdapter(zl)
		defer accessLog.Sync() //nolint:errcheck

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		d := newDispatcher(cmd.Context(), cfg, log)
		d.Metrics = metrics.NewPrometheusSink(reg)

		e := handlers.NewServer(handlers.NewHandler(d, cfg.Dispatch, log), accessLog, reg)

		serverErrors := make(chan error, 1)
		go func() {
			log.Infof("Starting server on %s", cfg.Server.Address)
			serverErrors <- e.Start(cfg.Server.Address)
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case sig := <-shutdown:
			log.Infof("Shutting down gracefully... signal: %v", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("address", "a", "", "Listen address (overrides server.address)")
}
