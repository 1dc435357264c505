package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/adh/internal/api"
	"github.com/jbweber/homelab/adh/internal/config"
	"github.com/jbweber/homelab/adh/internal/logging"
	"github.com/jbweber/homelab/adh/internal/notify"
	"github.com/jbweber/homelab/adh/internal/snmp"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

// newRouter builds the HTTP handler tree around the API routes.
func newRouter(a *api.API, log *logging.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(api.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(api.BodySizeLimit)
	a.RegisterRoutes(r)
	return r
}

// serve runs the API until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, cfg *config.Config) error {
	log := logging.New(cfg.Logging, version)
	log.Info("starting adh", "version", version)

	ds, err := cfg.InitializeDatabase(ctx)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := ds.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	schema, err := ds.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	log.Info("database ready", "path", cfg.Database.Path, "schema_version", schema)

	notifier, err := notify.New(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	if n, ok := notifier.(*notify.MQTTNotifier); ok {
		defer func() {
			log.Info("disconnecting from MQTT")
			n.Close()
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	}

	prober := snmp.NewProber(cfg.SNMP.Port, cfg.GetSNMPTimeout(), cfg.SNMP.Retries)

	a := api.NewAPI(ds, prober, notifier, log)
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			log.Error("error releasing statements", "error", closeErr)
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newRouter(a, log),
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  cfg.GetIdleTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}
