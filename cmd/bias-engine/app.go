package main

import (
	"context"
	"fmt"

	"golang-fundamental-bias/internal/bias/config"
	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/repository"
	"golang-fundamental-bias/internal/bias/scoring"
	"golang-fundamental-bias/internal/bias/service"
	"golang-fundamental-bias/internal/bias/strategy"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/logger"
	"golang-fundamental-bias/pkg/metrics"
	"golang-fundamental-bias/pkg/postgres"
	"golang-fundamental-bias/pkg/redis"
	"golang-fundamental-bias/pkg/telegram"
)

// recalcMode decides what a high-impact release does after ingestion.
type recalcMode int

const (
	// recalcNone leaves the recompute to the caller (exit code 4).
	recalcNone recalcMode = iota
	// recalcInProcess runs the hourly recompute before returning.
	recalcInProcess
	// recalcStream enqueues the hourly recompute on the trigger stream.
	recalcStream
)

type app struct {
	cfg          *config.Config
	logger       *logger.Logger
	metrics      *metrics.Recorder
	db           *postgres.DB
	redisClient  *redis.Client
	runService   service.RunService
	queryService service.BiasQueryService
}

func loadApp(recalc recalcMode) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize database
	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &app{cfg: cfg, logger: appLogger, metrics: metrics.New(), db: db}

	var publisher service.TriggerPublisher
	if recalc == recalcStream {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		a.redisClient = redisClient
		publisher = service.NewRedisTriggerPublisher(redisClient, cfg.Redis.StreamMaxLen)
	}

	// Initialize repositories
	runRepo := repository.NewBiasRunRepository(db.DB)
	eventRepo := repository.NewProcessedEventRepository(db.DB)
	economicRepo := repository.NewEconomicScoreRepository(db.DB)
	scoreRepo := repository.NewCurrencyScoreRepository(db.DB)
	biasRepo := repository.NewBiasRepository(db.DB)
	driverRepo := repository.NewMarketDriverRepository(db.DB)

	providers := cfg.Providers
	forexFactoryXML := repository.NewForexFactoryXMLRepository(providers.ForexFactoryXML, appLogger)
	calendarSvc := scoring.NewCalendarService(appLogger, a.metrics,
		repository.NewTradingEconomicsRepository(providers.TradingEconomics, appLogger),
		forexFactoryXML,
		repository.NewForexFactoryRSSRepository(providers.ForexFactoryRSS, appLogger),
	)
	// Ingestion reads a single feed so every release keeps one event id.
	ledgerCalendarSvc := scoring.NewCalendarService(appLogger, a.metrics, forexFactoryXML)
	marketSvc := scoring.NewMarketDataService(appLogger, a.metrics, providers.MarketCacheTTL, providers.MaxConcurrency,
		repository.NewPolygonRepository(providers.Polygon, appLogger),
		repository.NewYahooRepository(providers.Yahoo, appLogger),
	)
	macroSvc := scoring.NewMacroService(repository.NewEconDBRepository(providers.EconDB, appLogger), appLogger, a.metrics)

	scoringSvc := scoring.NewScoringService(cfg.Engine, scoring.ScoringDeps{
		Calendar:     calendarSvc,
		Markets:      marketSvc,
		Macro:        macroSvc,
		EconomicRepo: economicRepo,
		ScoreRepo:    scoreRepo,
		BiasRepo:     biasRepo,
	}, appLogger)
	ingestionSvc := scoring.NewEventIngestionService(scoring.NewCurrencyScorer(cfg.Engine), eventRepo, economicRepo, appLogger, a.metrics)
	classifier := scoring.NewMarketDriverClassifier(cfg.Drivers, scoreRepo, biasRepo, driverRepo, appLogger)

	notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Warn("Telegram notifier unavailable, alerts disabled", logger.ErrorField(err))
		notifier = telegram.NopNotifier{}
	}

	// The recalculator is bound once the run service exists.
	var runSvc service.RunService
	var recalculator strategy.Recalculator
	switch recalc {
	case recalcInProcess:
		recalculator = strategy.RecalculateFunc(func(ctx context.Context, trigger string) error {
			_, err := runSvc.Execute(ctx, dto.RunRequest{Mode: entity.ModeHourly, Trigger: trigger})
			return err
		})
	case recalcStream:
		recalculator = strategy.RecalculateFunc(func(ctx context.Context, trigger string) error {
			return runSvc.Recalculate(ctx, trigger)
		})
	}

	eventsDeps := strategy.EventsDeps{
		Calendar:     ledgerCalendarSvc,
		Ingestion:    ingestionSvc,
		Recalculator: recalculator,
		Notifier:     notifier,
	}
	strategies := []strategy.RunStrategy{
		strategy.NewWeeklyScoringStrategy(appLogger, scoringSvc),
		strategy.NewHourlyScoringStrategy(appLogger, scoringSvc, classifier),
		strategy.NewEventsStrategy(appLogger, eventsDeps),
		strategy.NewHighImpactStrategy(appLogger, eventsDeps),
		strategy.NewDriversStrategy(classifier),
	}
	runSvc = service.NewRunService(runRepo, publisher, appLogger, a.metrics, strategies)

	a.runService = runSvc
	a.queryService = service.NewBiasQueryService(biasRepo, scoreRepo, driverRepo, eventRepo, cfg.Engine.Currencies)
	return a, nil
}

// pushMetrics sends the run metrics of a one-shot command to the push gateway.
func (a *app) pushMetrics() {
	if !a.cfg.Metrics.Enabled || a.cfg.Metrics.PushGatewayURL == "" {
		return
	}
	if err := a.metrics.Push(a.cfg.Metrics.PushGatewayURL, a.cfg.Metrics.JobName); err != nil {
		a.logger.Warn("Failed to push metrics", logger.ErrorField(err))
	}
}

// Close releases the database and redis connections.
func (a *app) Close() {
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
	if sqlDB, err := a.db.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}
