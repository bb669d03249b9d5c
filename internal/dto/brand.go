package dto

import "github.com/octobees/brand-enrichment/internal/entity"

// BrandLookupRequest asks for the brand assets of a single company.
type BrandLookupRequest struct {
	CompanyName string `json:"company_name"`
	WebsiteURL  string `json:"website_url,omitempty"`
}

// EnrichRequest carries a company intelligence record to enrich in place.
type EnrichRequest struct {
	CompanyData entity.CompanyRecord `json:"company_data"`
	CompanyName string               `json:"company_name"`
	WebsiteURL  string               `json:"website_url,omitempty"`
}
