package entity

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a business stored in the catalogue.
type Company struct {
	ID             uuid.UUID    `json:"id"`
	Company        string       `json:"company"`
	Website        *string      `json:"website,omitempty"`
	City           *string      `json:"city,omitempty"`
	Country        *string      `json:"country,omitempty"`
	BrandAssets    *BrandAssets `json:"brand_assets,omitempty"`
	BrandFetchedAt *time.Time   `json:"brand_fetched_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// WebsiteURL returns the stored website or an empty string.
func (c Company) WebsiteURL() string {
	if c.Website == nil {
		return ""
	}
	return *c.Website
}
