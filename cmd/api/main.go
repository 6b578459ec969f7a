package main

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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/jieqi-converter/api/swagger"
	"github.com/noah-isme/jieqi-converter/internal/handler"
	"github.com/noah-isme/jieqi-converter/internal/repository"
	"github.com/noah-isme/jieqi-converter/internal/service"
	"github.com/noah-isme/jieqi-converter/pkg/cache"
	"github.com/noah-isme/jieqi-converter/pkg/config"
	"github.com/noah-isme/jieqi-converter/pkg/logger"
)

// @title Jieqi Converter API
// @version 1.0.0
// @description Converts southern-hemisphere birth dates into their northern-hemisphere solar-term equivalents.
// @BasePath /api/v1
// @schemes http

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	readiness := map[string]handler.Pinger{}

	cacheRepo := repository.NewCacheRepository(nil, logr)
	cacheEnabled := false
	if cfg.TermCache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			// the term cache is optional; run without it
			logr.Warn("redis unavailable, term cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			readiness["redis"] = cacheRepo
			cacheEnabled = true
		}
	}
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.TermCache.TTL, logr, cacheEnabled)

	var (
		remote       service.RemoteTermSource
		remoteClient *repository.RemoteTermRepository
	)
	if cfg.SolarTerms.RemoteEnabled() {
		remoteClient = repository.NewRemoteTermRepository(cfg.SolarTerms.RemoteURL, cfg.SolarTerms.RemoteTimeout, logr)
		remote = repository.NewRateLimitedTermSource(remoteClient, cfg.SolarTerms.RemoteRPS, cfg.SolarTerms.RemoteBurst)
		logr.Info("remote solar term source enabled", zap.String("source", remote.Name()))
	}

	termSvc := service.NewSolarTermService(remote, cacheSvc, cfg.TermCache.TTL, metrics, logr)
	if err := termSvc.SyncCache(ctx); err != nil {
		logr.Warn("failed to reconcile term cache with remote source", zap.Error(err))
	}
	if remoteClient != nil && cacheEnabled && cfg.TermCache.WarmupSpan > 0 {
		// warm-up gets its own limiter
		warmSource := repository.NewWaitingTermSource(remoteClient, cfg.TermCache.WarmupRPS, 1)
		warmSvc := service.NewSolarTermService(warmSource, cacheSvc, cfg.TermCache.TTL, metrics, logr)
		warmer := service.NewTermWarmer(warmSvc, cfg.TermCache.WarmupWorkers, logr)
		go warmer.Warm(ctx, time.Now().UTC().Year(), cfg.TermCache.WarmupSpan)
	}

	conversionSvc := service.NewConversionService(termSvc, validator.New(), metrics, logr)

	router := handler.NewRouter(handler.RouterDeps{
		Config:     cfg,
		Logger:     logr,
		Metrics:    metrics,
		SolarTerms: handler.NewSolarTermHandler(termSvc, logr),
		Conversion: handler.NewConversionHandler(conversionSvc, logr),
		Probes:     handler.NewMetricsHandler(metrics, readiness),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
	}
}
