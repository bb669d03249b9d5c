package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/octobees/brand-enrichment/internal/auth"
	"github.com/octobees/brand-enrichment/internal/branddev"
	"github.com/octobees/brand-enrichment/internal/config"
	"github.com/octobees/brand-enrichment/internal/database"
	"github.com/octobees/brand-enrichment/internal/handler"
	"github.com/octobees/brand-enrichment/internal/metrics"
	middlewarepkg "github.com/octobees/brand-enrichment/internal/middleware"
	"github.com/octobees/brand-enrichment/internal/repository"
	"github.com/octobees/brand-enrichment/internal/router"
	"github.com/octobees/brand-enrichment/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	lookups := metrics.NewLookups(registry)

	brandClient, err := branddev.NewClient(cfg.BrandDev.APIKey,
		branddev.WithBaseURL(cfg.BrandDev.BaseURL),
		branddev.WithTimeout(cfg.BrandDev.Timeout),
		branddev.WithRecorder(lookups),
	)
	if err != nil {
		log.Fatalf("failed to build brand.dev client: %v", err)
	}

	brandService := service.NewBrandService(brandClient, service.WithLookupRecorder(lookups))
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	handlers := router.Handlers{
		Enrich:  handler.NewEnrichHandler(brandService),
		Metrics: metrics.Handler(registry),
	}

	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			cancel()
			log.Fatalf("failed to connect database: %v", err)
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			cancel()
			log.Fatalf("failed to prepare database: %v", err)
		}
		cancel()
		defer pool.Close()

		companiesService := service.NewCompaniesService(repository.NewPGXCompaniesRepository(pool), brandService)
		handlers.Companies = handler.NewCompaniesHandler(companiesService)
		handlers.AdminUpload = handler.NewAdminUploadHandler(companiesService)
	} else {
		log.Printf("DATABASE_URL not set, company catalogue routes disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("listening on :%s", cfg.Port)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
