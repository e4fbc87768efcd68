package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang-fundamental-bias/internal/bias/delivery/consumer"
	delivery "golang-fundamental-bias/internal/bias/delivery/http"
	"golang-fundamental-bias/internal/bias/service"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/common"
	"golang-fundamental-bias/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the scheduler, the recompute consumer and the HTTP API",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(recalcStream)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()
	cfg := a.cfg

	a.logger.Info("Starting Bias Engine", logger.Field("name", cfg.App.Name), logger.Field("modes", a.runService.Modes()))

	// MKSTREAM creates the stream if it doesn't exist
	if err := a.redisClient.XGroupCreateMkStream(ctx, common.RedisStreamBiasRecalculate, common.RedisStreamGroup, "0").Err(); err != nil {
		if !strings.HasPrefix(err.Error(), "BUSYGROUP") {
			a.logger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
	}

	schedulerSvc, err := service.NewSchedulerService(a.runService, a.logger, cfg.Scheduler.PollingInterval, map[entity.RunMode]string{
		entity.ModeWeekly:     cfg.Scheduler.WeeklyCron,
		entity.ModeHourly:     cfg.Scheduler.HourlyCron,
		entity.ModeEvents:     cfg.Scheduler.EventsCron,
		entity.ModeHighImpact: cfg.Scheduler.HighImpactCron,
		entity.ModeDrivers:    cfg.Scheduler.DriversCron,
	})
	if err != nil {
		a.logger.Fatal("Invalid schedule", logger.ErrorField(err))
	}
	go schedulerSvc.Start(ctx)

	redisConsumer := consumer.NewRedisConsumer(cfg, a.redisClient, a.runService, a.logger)
	redisConsumer.Start(ctx)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")
	biasHandler := delivery.NewBiasHandler(a.queryService, a.logger)
	biasHandler.RegisterRoutes(apiV1.Group("/bias"))
	biasHandler.RegisterDriverRoutes(apiV1.Group("/drivers"))
	delivery.NewRunHandler(a.runService, a.logger).RegisterRoutes(apiV1.Group("/runs"))
	apiV1.GET("/metrics", echo.WrapHandler(a.metrics.Handler()))

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		a.logger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	a.logger.Info("Shutting down bias engine...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	redisConsumer.Stop()

	a.logger.Info("Bias engine stopped")
}
