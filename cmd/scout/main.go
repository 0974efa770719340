package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mymmrac/telego"
	"go.uber.org/zap"

	"vinylscout/internal/alert"
	"vinylscout/internal/bot"
	"vinylscout/internal/client/discogs"
	"vinylscout/internal/client/ebay"
	"vinylscout/internal/config"
	cronrunner "vinylscout/internal/cron"
	"vinylscout/internal/db"
	"vinylscout/internal/logger"
	"vinylscout/internal/matcher"
	"vinylscout/internal/ratelimit"
	gormrepository "vinylscout/internal/repository/gorm"
	"vinylscout/internal/service"
)

func main() {
	cfgPath := os.Getenv("VS_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("VS_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := gormrepository.New(dbConn.Gorm)
	discogsClient := discogs.New(cfg.Discogs, ratelimit.New(cfg.Discogs.CallsPerMinute), logger)
	ebayClient := ebay.New(ctx, cfg.Ebay, ratelimit.New(cfg.Ebay.CallsPerMinute), logger)

	tg, err := telego.NewBot(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal("telegram bot init failed", zap.Error(err))
	}

	engine := matcher.NewEngine(store, logger, matcher.Options{
		FuzzyCutoff:     cfg.Matcher.FuzzyCutoff,
		FuzzyCandidates: cfg.Matcher.FuzzyCandidates,
	})
	scanner := &service.Scanner{
		Ebay:   ebayClient,
		Store:  store,
		Engine: engine,
		Logger: logger,
	}
	pollSvc := &service.PollService{
		Store:    store,
		Scanner:  scanner,
		Dedup:    alert.NewDeduplicator(store),
		Notifier: alert.NewNotifier(tg, cfg.Ebay.CampaignID, logger),
		Tick:     cfg.Scan.TickInterval,
		Logger:   logger,
	}
	refreshSvc := &service.RefreshService{
		Store:     store,
		Discogs:   discogsClient,
		MaxAge:    cfg.Refresh.MaxAge,
		SeedLimit: cfg.Discogs.SeedLimit,
		Logger:    logger,
	}
	cleanupSvc := &service.CleanupService{
		Store:             store,
		ListingRetention:  cfg.Cleanup.ListingRetention,
		AlertLogRetention: cfg.Cleanup.AlertLogRetention,
		Logger:            logger,
	}

	cronRunner := cronrunner.New(logger, ctx)
	if err := cronRunner.Add("price-refresh", cfg.Refresh.Schedule, func(ctx context.Context) error {
		_, err := refreshSvc.RunOnce(ctx)
		return err
	}); err != nil {
		logger.Fatal("schedule price refresh failed", zap.Error(err))
	}
	if err := cronRunner.Add("retention-cleanup", cfg.Cleanup.Schedule, func(ctx context.Context) error {
		_, err := cleanupSvc.RunOnce(ctx)
		return err
	}); err != nil {
		logger.Fatal("schedule retention cleanup failed", zap.Error(err))
	}
	cronRunner.Start()

	// Seed, price and trim the stores without holding up the loops. The cron
	// schedules only fire later; a long-stopped instance should not wait a
	// day to shed expired rows.
	go func() {
		for _, query := range cfg.Discogs.SeedQueries {
			if _, err := refreshSvc.SeedFromSearch(ctx, query); err != nil && ctx.Err() == nil {
				logger.Warn("catalog seed failed", zap.String("query", query), zap.Error(err))
			}
		}
		if _, err := refreshSvc.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("initial price refresh failed", zap.Error(err))
		}
		if _, err := cleanupSvc.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("initial retention cleanup failed", zap.Error(err))
		}
	}()

	botSvc := bot.New(tg, store, logger)
	go func() {
		if err := botSvc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("telegram bot stopped", zap.Error(err))
		}
	}()

	go func() {
		if err := pollSvc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("poll loop stopped", zap.Error(err))
		}
	}()

	logger.Info("vinylscout started",
		zap.String("env", cfg.App.Env),
		zap.String("db", cfg.DB.Path),
	)

	<-ctx.Done()
	stop()
	cronRunner.Stop()
	logger.Info("shutdown complete")
}
