package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/smartthings-integration/internal/pkg/config"
	"github.com/anicoll/smartthings-integration/internal/pkg/coordinator"
	"github.com/anicoll/smartthings-integration/internal/pkg/database"
	"github.com/anicoll/smartthings-integration/internal/pkg/database/migration"
	"github.com/anicoll/smartthings-integration/internal/pkg/entity"
	"github.com/anicoll/smartthings-integration/internal/pkg/logic"
	"github.com/anicoll/smartthings-integration/internal/pkg/model"
	"github.com/anicoll/smartthings-integration/internal/pkg/mqtt"
	"github.com/anicoll/smartthings-integration/internal/pkg/publisher"
	"github.com/anicoll/smartthings-integration/internal/pkg/server"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
	"github.com/anicoll/smartthings-integration/internal/pkg/webhook"
)

var (
	ErrNoLocations = errors.New("no SmartThings locations found")
	errCron        = errors.New("cron error")
)

func SmartThingsCommand(ctx *cli.Context) error {
	cfg := &config.Config{
		SmartThings: &config.SmartThingsConfig{
			AccessToken:  ctx.String("access-token"),
			LocationID:   ctx.String("location-id"),
			PollInterval: ctx.Duration("poll-interval"),
		},
		Webhook: &config.WebhookConfig{
			Enabled:         ctx.Bool("webhook-enabled"),
			URL:             ctx.String("webhook-url"),
			TunnelSubdomain: ctx.String("tunnel-subdomain"),
		},
		LogLevel: ctx.String("log-level"),
	}
	if err := cfg.LoadInfra(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()

	errorChan := make(chan error, 1000)
	return run(ctx.Context, cfg, smartthings.New(cfg.SmartThings.AccessToken), errorChan, logger)
}

func newLogger(level string) (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	var err error
	logCfg.Level, err = zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	return logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

type historyStore interface {
	History(ctx context.Context, uniqueID string, from, to *time.Time) (model.EntityStates, error)
}

func run(ctx context.Context, cfg *config.Config, api SmartThingsAPI, errorChan chan error, logger *zap.Logger) error {
	zap.ReplaceGlobals(logger)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	locationID, err := resolveLocation(ctx, api, cfg.SmartThings.LocationID)
	if err != nil {
		return err
	}
	coord := coordinator.New(api, coordinator.NewStore(), locationID, cfg.SmartThings.PollInterval)
	if err := coord.VerifyLocation(ctx); err != nil {
		return err
	}

	pub := publisher.New()

	var history historyStore
	if cfg.Database.Enabled() {
		db, err := openDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := pub.RegisterPublisher("postgres", db); err != nil {
			return err
		}
		history = db
		eg.Go(func() error {
			return cronDbCleanup(ctx, db, cfg.Database.CleanupSchedule, errorChan)
		})
	}

	registry := entity.NewRegistry(entity.Deps{Source: coord, Commander: coord})
	bridge := logic.NewLogicSvc(coord, api, registry, pub, history)
	coord.Subscribe(func() {
		bridge.Update(ctx)
	})

	if cfg.Mqtt.Enabled() {
		mqttSvc := mqtt.NewService(cfg.Mqtt, bridge)
		mqttSvc.OnReconnect(func() {
			pub.Reset("mqtt")
			if err := coord.RequestRefresh(ctx); err != nil {
				logger.Warn("refresh after mqtt reconnect failed", zap.Error(err))
			}
		})
		if err := mqttSvc.Connect(); err != nil {
			return fmt.Errorf("mqtt connect: %w", err)
		}
		if err := pub.RegisterPublisher("mqtt", mqttSvc); err != nil {
			return err
		}
		eg.Go(func() error {
			return mqttSvc.Run(ctx)
		})
	}

	// the first refresh publishes every entity and gives the webhook its
	// device list before polling starts
	if err := coord.Refresh(ctx); err != nil {
		return err
	}
	eg.Go(func() error {
		return coord.Start(ctx)
	})

	var hooks http.Handler
	if cfg.Webhook.Enabled {
		manager := webhook.New(cfg.Webhook, coord, coord, api)
		hooks = manager
		eg.Go(func() error {
			return manager.Start(ctx)
		})
	}

	eg.Go(func() error {
		return server.New(cfg.Server, bridge, hooks).Run(ctx)
	})

	eg.Go(func() error {
		// handle any async errors from service
		for {
			select {
			case err := <-errorChan:
				if errors.Is(err, errCron) {
					logger.Error("cron error", zap.Error(err))
					return err
				}
				logger.Warn("async error", zap.Error(err))
			case <-ctx.Done():
				logger.Info("context done")
				return ctx.Err()
			}
		}
	})

	return eg.Wait()
}

// resolveLocation returns configured, or the first location visible to the
// token when none is configured.
func resolveLocation(ctx context.Context, api SmartThingsAPI, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	locations, err := api.Locations(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to connect to SmartThings API: %w", err)
	}
	if len(locations) == 0 {
		return "", ErrNoLocations
	}
	zap.L().Info("using first location", zap.String("location_id", locations[0].LocationID), zap.String("name", locations[0].Name))
	return locations[0].LocationID, nil
}

func openDatabase(ctx context.Context, cfg *config.DatabaseConfig) (*database.Database, error) {
	if err := migration.Migrate(cfg.URL, cfg.MigrationsFolder); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	pool, err := database.Connect(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}
	return database.NewDatabase(pool), nil
}

type cleaner interface {
	Cleanup(ctx context.Context) error
}

func cronDbCleanup(ctx context.Context, db cleaner, schedule string, errChan chan error) error {
	if err := db.Cleanup(ctx); err != nil {
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if err := db.Cleanup(ctx); err != nil {
			zap.L().Error("error cleaning up database", zap.Error(err))
			errChan <- fmt.Errorf("%w: %w", errCron, err)
			return
		}
	}); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
