package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	structuredparser "travelbot/internal/agents/ai-conversation/structured-parser"
	airportindex "travelbot/internal/agents/travel-data/airport-index"
	"travelbot/internal/agents/travel-data/amadeus"
	"travelbot/internal/agents/travel-data/geocoder"
	"travelbot/internal/api"
	"travelbot/internal/common/config"
	"travelbot/internal/common/database"
	"travelbot/internal/common/logger"
	"travelbot/internal/common/observability"
	"travelbot/internal/notify"
	"travelbot/internal/session"
	"travelbot/internal/wizard"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the wizard HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	zapLog, log := newLogger(cfg)
	defer zapLog.Sync()

	zapLog.Info("Starting travelbot...", zap.String("address", cfg.Server.Address))

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err := database.ConnectWithRetry(ctx, "Redis connection", 10, 2*time.Second, log, func(ctx context.Context) error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init PostgreSQL audit log (optional) ---
	var auditor session.Auditor = session.NopAuditor{}
	if cfg.Database.Postgres.Enabled() {
		pg, err := connectPostgres(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer pg.Close()
		auditor = session.NewPostgresAuditor(pg.DB, &sessionLoggerAdapter{log})
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Agents ---
	parser := structuredparser.NewParser(
		structuredparser.NewOpenAIChat(&structuredparser.Config{
			BaseURL:     cfg.APIs.LLM.BaseURL,
			APIKey:      cfg.APIs.LLM.APIKey,
			Model:       cfg.APIs.LLM.Model,
			Temperature: cfg.APIs.LLM.Temperature,
			Timeout:     config.GetDuration(cfg.APIs.LLM.Timeout),
			MaxRetries:  cfg.APIs.LLM.MaxRetries,
		}, &parserLoggerAdapter{log}),
		&parserLoggerAdapter{log},
	)

	amadeusCfg := amadeus.LoadConfig()
	amadeusCfg.BaseURL = cfg.APIs.Amadeus.BaseURL
	amadeusCfg.ClientID = cfg.APIs.Amadeus.ClientID
	amadeusCfg.ClientSecret = cfg.APIs.Amadeus.ClientSecret
	amadeusCfg.Timeout = config.GetDuration(cfg.APIs.Amadeus.Timeout)
	amadeusCfg.MaxRetries = cfg.APIs.Amadeus.MaxRetries
	amadeusCfg.MaxFlightOffers = cfg.APIs.Amadeus.MaxFlightOffers
	travel := amadeus.NewClient(amadeusCfg, &amadeusLoggerAdapter{log})

	geo := geocoder.New(&geocoder.Config{
		BaseURL:    cfg.APIs.Geocoding.BaseURL,
		UserAgent:  cfg.APIs.Geocoding.UserAgent,
		Timeout:    config.GetDuration(cfg.APIs.Geocoding.Timeout),
		MaxRetries: cfg.APIs.Geocoding.MaxRetries,
	}, &geocoderLoggerAdapter{log})

	var airports wizard.AirportLookup = travel
	if cfg.Providers.AirportLookup == "elasticsearch" {
		esClient, err := connectElasticsearch(ctx, cfg, log)
		if err != nil {
			return err
		}
		airports = airportindex.NewIndex(&airportindex.Config{
			Index:   cfg.Providers.AirportIndex,
			Timeout: 5 * time.Second,
		}, esClient.Client, log)
		zapLog.Info("Airport lookup uses Elasticsearch", zap.String("index", cfg.Providers.AirportIndex))
	}

	// --- Notifications (optional) ---
	var sharer api.Sharer
	if cfg.Notifications.Enabled() {
		n, err := notify.New(ctx, &notify.Config{
			AWSRegion:    cfg.Notifications.AWS.Region,
			EmailEnabled: cfg.Notifications.Email.Enabled,
			FromEmail:    cfg.Notifications.Email.FromEmail,
			SMSEnabled:   cfg.Notifications.SMS.Enabled,
			SenderID:     cfg.Notifications.SMS.SenderID,
			Timeout:      10 * time.Second,
		}, log)
		if err != nil {
			return fmt.Errorf("notifier init failed: %w", err)
		}
		sharer = n
	}

	machine := wizard.NewMachine(&wizard.Config{
		DefaultOrigin:    cfg.Wizard.DefaultOrigin,
		HotelRadiusKM:    cfg.Wizard.HotelRadiusKM,
		ActivityRadiusKM: cfg.Wizard.ActivityRadiusKM,
		StepTimeout:      config.GetDuration(cfg.Wizard.StepTimeout),
	}, wizard.Dependencies{
		Parser:        parser,
		Airports:      airports,
		Travel:        travel,
		Geocoder:      geo,
		Observability: obs,
	}, &wizardLoggerAdapter{log})

	store := session.NewRedisStore(rdb.Client, &session.Config{
		KeyPrefix: cfg.Session.KeyPrefix,
		TTL:       config.GetDuration(cfg.Session.TTL),
	}, &sessionLoggerAdapter{log})

	apiCfg := &api.Config{
		Addr:            cfg.Server.Address,
		ReadTimeout:     config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:    config.GetDuration(cfg.Server.WriteTimeout),
		ShutdownTimeout: config.GetDuration(cfg.Server.ShutdownTimeout),
		MaxBodyBytes:    api.LoadConfig().MaxBodyBytes,
	}
	handler := api.NewHandler(apiCfg, machine, store, auditor, sharer, &apiLoggerAdapter{log})
	srv := api.NewServer(apiCfg, handler)

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", apiCfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...")
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), apiCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	zapLog.Info("travelbot stopped")
	return nil
}

func connectPostgres(ctx context.Context, cfg *config.Config, log logger.Logger) (*database.PostgresClient, error) {
	var pg *database.PostgresClient
	err := database.ConnectWithRetry(ctx, "PostgreSQL connection", 15, 2*time.Second, log, func(ctx context.Context) error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	})
	return pg, err
}

func connectElasticsearch(ctx context.Context, cfg *config.Config, log logger.Logger) (*database.ElasticsearchClient, error) {
	var esClient *database.ElasticsearchClient
	err := database.ConnectWithRetry(ctx, "Elasticsearch connection", 15, 2*time.Second, log, func(ctx context.Context) error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	})
	return esClient, err
}
