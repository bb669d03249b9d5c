package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/brand-enrichment/internal/dto"
	"github.com/octobees/brand-enrichment/internal/service"
)

// CompaniesHandler exposes company catalogue endpoints.
type CompaniesHandler struct {
	service *service.CompaniesService
}

// NewCompaniesHandler creates a new handler instance.
func NewCompaniesHandler(service *service.CompaniesService) *CompaniesHandler {
	return &CompaniesHandler{service: service}
}

// List handles GET /companies requests.
func (h *CompaniesHandler) List(c echo.Context) error {
	filter := dto.ListFilter{
		Q:           strings.TrimSpace(c.QueryParam("q")),
		City:        strings.TrimSpace(c.QueryParam("city")),
		Country:     strings.TrimSpace(c.QueryParam("country")),
		BrandStatus: strings.ToLower(strings.TrimSpace(c.QueryParam("brand_status"))),
		Page:        parseIntDefault(c.QueryParam("page"), 1),
		PerPage:     parseIntDefault(c.QueryParam("per_page"), 20),
	}

	switch filter.BrandStatus {
	case "", dto.BrandStatusMissing, dto.BrandStatusAvailable, dto.BrandStatusFailed:
	default:
		return Error(c, http.StatusBadRequest, "invalid brand_status (use missing, available or failed)")
	}

	if minConfidenceStr := strings.TrimSpace(c.QueryParam("min_confidence")); minConfidenceStr != "" {
		minConfidence, err := strconv.Atoi(minConfidenceStr)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid min_confidence")
		}
		filter.MinConfidence = &minConfidence
	}

	companies, err := h.service.ListCompanies(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list companies")
	}

	return Success(c, http.StatusOK, "companies retrieved", companies)
}

// GetBrandAssets handles GET /companies/:id/brand-assets.
func (h *CompaniesHandler) GetBrandAssets(c echo.Context) error {
	assets, err := h.service.GetBrandAssets(c.Request().Context(), c.Param("id"))
	if err != nil {
		return companyError(c, err, "failed to fetch brand assets")
	}
	return Success(c, http.StatusOK, "ok", assets)
}

// EnrichBrand handles POST /companies/:id/brand-assets.
func (h *CompaniesHandler) EnrichBrand(c echo.Context) error {
	company, err := h.service.EnrichBrand(c.Request().Context(), c.Param("id"))
	if err != nil {
		return companyError(c, err, "failed to enrich company brand")
	}
	return Success(c, http.StatusOK, "brand assets stored", company)
}

func companyError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrInvalidCompanyID):
		return Error(c, http.StatusBadRequest, "invalid company id")
	case errors.Is(err, service.ErrCompanyNotFound):
		return Error(c, http.StatusNotFound, "company not found")
	case errors.Is(err, service.ErrBrandAssetsNotFound):
		return Error(c, http.StatusNotFound, "brand assets not found")
	default:
		return Error(c, http.StatusInternalServerError, fallback)
	}
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
