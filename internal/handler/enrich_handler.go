package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/brand-enrichment/internal/dto"
	"github.com/octobees/brand-enrichment/internal/entity"
	"github.com/octobees/brand-enrichment/internal/service"
)

// EnrichHandler exposes brand lookups to the intelligence pipeline.
type EnrichHandler struct {
	brandService *service.BrandService
}

// NewEnrichHandler wires a new EnrichHandler instance.
func NewEnrichHandler(brandService *service.BrandService) *EnrichHandler {
	return &EnrichHandler{brandService: brandService}
}

// Lookup handles POST /brand-assets. Provider failures are returned as data
// with a 200 status.
func (h *EnrichHandler) Lookup(c echo.Context) error {
	var payload dto.BrandLookupRequest
	if err := c.Bind(&payload); err != nil {
		return Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(payload.CompanyName) == "" && strings.TrimSpace(payload.WebsiteURL) == "" {
		return Error(c, http.StatusBadRequest, "company_name or website_url is required")
	}

	assets := h.brandService.Lookup(c.Request().Context(), payload.CompanyName, payload.WebsiteURL)
	return Success(c, http.StatusOK, lookupMessage(assets), assets)
}

// Enrich handles POST /enrich: the company record is returned with its
// brandAssets key set and every other key untouched.
func (h *EnrichHandler) Enrich(c echo.Context) error {
	var payload dto.EnrichRequest
	if err := c.Bind(&payload); err != nil {
		return Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	record := h.brandService.Enrich(c.Request().Context(), payload.CompanyData, payload.CompanyName, payload.WebsiteURL)
	assets, _ := record[entity.BrandAssetsKey].(entity.BrandAssets)
	return Success(c, http.StatusOK, lookupMessage(assets), record)
}

func lookupMessage(assets entity.BrandAssets) string {
	if assets.Failed() {
		return "brand lookup failed"
	}
	return "brand assets retrieved"
}
