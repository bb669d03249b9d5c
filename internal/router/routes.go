package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/brand-enrichment/internal/auth"
	"github.com/octobees/brand-enrichment/internal/config"
	"github.com/octobees/brand-enrichment/internal/handler"
	middlewarepkg "github.com/octobees/brand-enrichment/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router. Companies and
// AdminUpload are nil when no database is configured.
type Handlers struct {
	Enrich      *handler.EnrichHandler
	Companies   *handler.CompaniesHandler
	AdminUpload *handler.AdminUploadHandler
	Metrics     http.Handler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	if handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(handlers.Metrics))
	}

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	enrichLimiter := middlewarepkg.RateLimiter(cfg.RateLimitEnrich)

	secured.POST("/brand-assets", handlers.Enrich.Lookup, enrichLimiter)
	secured.POST("/enrich", handlers.Enrich.Enrich, enrichLimiter)

	if handlers.Companies != nil {
		secured.GET("/companies", handlers.Companies.List)
		secured.GET("/companies/:id/brand-assets", handlers.Companies.GetBrandAssets)
		secured.POST("/companies/:id/brand-assets", handlers.Companies.EnrichBrand, middlewarepkg.RequireScope(auth.ScopeBrandWrite), enrichLimiter)
	}

	if handlers.AdminUpload != nil {
		admin := secured.Group("/admin", middlewarepkg.RequireScope(auth.ScopeAdmin))
		admin.POST("/upload-csv", handlers.AdminUpload.UploadCSV)
	}
}
