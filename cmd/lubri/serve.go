package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Edisonlex/lubri/internal/alerts"
	"github.com/Edisonlex/lubri/internal/certs"
	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/httpapi"
	"github.com/Edisonlex/lubri/internal/metrics"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classifier and alert lists over HTTP",
		Long: `Start the HTTP API:

  GET  /health
  POST /api/classify           classify one product
  POST /api/classify/batch     classify a JSON array of products
  GET  /api/alerts?role=       prioritized list for a role
  POST /api/alerts             store an alert
  GET  /api/alerts/summary     counts per urgency
  POST /api/alerts/{id}/ack    acknowledge an alert
  POST /api/stock              record a stock count
  GET  /metrics                Prometheus metrics`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config)")
	cmd.Flags().Bool("tls", false, "Serve HTTPS with a self-signed certificate")
	cmd.Flags().StringSlice("host", nil, "Extra host name or IP the certificate must cover")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = appConfig.Server.Addr
	}

	db, cleanup, err := getDatabase(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	svc, closeCache, err := newCatalog(ctx, db)
	if err != nil {
		return err
	}
	defer closeCache()

	defaultRole, _ := model.ParseRole(appConfig.Alerts.DefaultRole)
	api := httpapi.NewServer(svc, db, alerts.NewPrioritizer(appConfig.Alerts.Cap), defaultRole, slog.Default())

	// Keep the active-alert gauge current between scrapes.
	poller := alerts.NewPoller(db, appConfig.Alerts.PollInterval,
		alerts.WithFailureHook(func(error) { metrics.AlertPollFailures.Inc() }))
	go func() {
		for snap := range poller.Run(ctx) {
			s := alerts.Summarize(snap.Alerts)
			counts := make(map[string]int, len(s.ByUrgency))
			for u, n := range s.ByUrgency {
				counts[string(u)] = n
			}
			metrics.SetActiveAlerts(counts)
		}
	}()

	server := &http.Server{
		Addr:         addr,
		Handler:      api.Handler(),
		ReadTimeout:  appConfig.Server.ReadTimeout,
		WriteTimeout: appConfig.Server.WriteTimeout,
	}

	useTLS := appConfig.Server.TLS
	if cmd.Flags().Changed("tls") {
		useTLS, _ = cmd.Flags().GetBool("tls")
	}
	if useTLS {
		hosts, _ := cmd.Flags().GetStringSlice("host")
		manager := certs.NewFileManager(appConfig.Server.CertDir, append(appConfig.Server.TLSHosts, hosts...)...)
		cert, err := manager.GetOrCreateCertificate()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		certFile, _ := manager.Paths()
		slog.Info("Using self-signed certificate", "file", certFile)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API listening", "addr", addr, "tls", useTLS, "rules", svc.Classifier().RuleCount())
		var err error
		if useTLS {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		common.LogError(err, "HTTP API did not shut down cleanly", common.Fields{"addr": addr})
		return err
	}
	return nil
}

func shutdownTimeout() time.Duration {
	if appConfig.Server.ShutdownTimeout > 0 {
		return appConfig.Server.ShutdownTimeout
	}
	return 5 * time.Second
}
