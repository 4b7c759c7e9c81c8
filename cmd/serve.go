package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coreybb/checkin/api"
	"github.com/coreybb/checkin/config"
	"github.com/coreybb/checkin/datastore"
	"github.com/coreybb/checkin/delivery"
	"github.com/coreybb/checkin/webhooks"
)

const (
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
	tableSetupTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if missing := cfg.Missing(); missing != "" {
		log.Printf("WARNING: %s. Webhook POSTs will answer 500 until it is configured.", missing)
	}

	httpClient := &http.Client{Timeout: cfg.OutboundTimeout}

	store, cleanup, err := setupStore(cfg, httpClient)
	if err != nil {
		return err
	}
	defer cleanup()

	var sender delivery.MessageSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		twilioProvider, err := delivery.NewTwilioProvider(cfg.TwilioAPIURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken, httpClient)
		if err != nil {
			return fmt.Errorf("twilio setup failed: %w", err)
		}
		sender = twilioProvider
	}

	whatsAppHandler := webhooks.NewWhatsAppHandler(cfg, store, sender)
	router := api.SetupRoutes(whatsAppHandler)

	return startServer(cfg.Port, router)
}

// setupStore builds the configured record store. It returns a nil store when
// the backend's settings are absent so diagnostics can still report on them.
func setupStore(cfg config.Config, client datastore.HTTPDoer) (datastore.RecordStore, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		if cfg.DBConnectionString == "" {
			return nil, noop, nil
		}
		db, err := datastore.OpenPostgres(cfg.DBConnectionString)
		if err != nil {
			return nil, noop, fmt.Errorf("database setup failed: %w", err)
		}
		store := datastore.NewPostgresStore(db, cfg.AirtableTableName)

		ctx, cancel := context.WithTimeout(context.Background(), tableSetupTimeout)
		defer cancel()
		if err := store.EnsureTable(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		return store, func() { db.Close() }, nil

	default:
		if cfg.AirtableAPIKey == "" || cfg.AirtableBaseID == "" {
			return nil, noop, nil
		}
		return datastore.NewAirtableStore(cfg.AirtableAPIURL, cfg.AirtableAPIKey, cfg.AirtableBaseID, cfg.AirtableTableName, client), noop, nil
	}
}

func startServer(port string, router http.Handler) error {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-shutdownSignal:
	}
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
	return nil
}
