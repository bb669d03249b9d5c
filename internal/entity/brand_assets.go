package entity

import "encoding/json"

// DataSourceBrandDev tags brand assets retrieved from brand.dev.
const DataSourceBrandDev = "brand.dev"

// BrandAssetsKey is the key written into a CompanyRecord by enrichment.
const BrandAssetsKey = "brandAssets"

// CompanyRecord is the caller-owned company intelligence document. Enrichment
// only ever sets BrandAssetsKey on it.
type CompanyRecord map[string]any

// BrandAssets is the normalized brand bundle for a company. When Error is set
// the value is the failure variant and only Error, Domain and Confidence are
// meaningful.
type BrandAssets struct {
	LogoURL          *string
	PrimaryColor     *string
	SecondaryColors  []string
	BrandDescription *string
	DataSource       string
	Confidence       int
	Domain           string
	IndustryTags     []string
	CompanyName      *string
	Slogan           *string
	Error            string
}

// FailedBrandAssets builds the failure variant. Confidence is always zero.
func FailedBrandAssets(message, domain string) BrandAssets {
	return BrandAssets{Error: message, Domain: domain}
}

// Failed reports whether the lookup produced no usable brand data.
func (b BrandAssets) Failed() bool {
	return b.Error != ""
}

type brandAssetsSuccess struct {
	LogoURL          *string  `json:"logoUrl"`
	PrimaryColor     *string  `json:"primaryColor"`
	SecondaryColors  []string `json:"secondaryColors"`
	BrandDescription *string  `json:"brandDescription"`
	DataSource       string   `json:"dataSource"`
	Confidence       int      `json:"confidence"`
	Domain           string   `json:"domain"`
	IndustryTags     []string `json:"industryTags"`
	CompanyName      *string  `json:"companyName"`
	Slogan           *string  `json:"slogan"`
}

type brandAssetsFailure struct {
	Error      string `json:"error"`
	Domain     string `json:"domain,omitempty"`
	Confidence int    `json:"confidence"`
}

// MarshalJSON emits either the success or the failure shape.
func (b BrandAssets) MarshalJSON() ([]byte, error) {
	if b.Failed() {
		return json.Marshal(brandAssetsFailure{Error: b.Error, Domain: b.Domain, Confidence: 0})
	}
	return json.Marshal(brandAssetsSuccess{
		LogoURL:          b.LogoURL,
		PrimaryColor:     b.PrimaryColor,
		SecondaryColors:  stringSliceOrEmpty(b.SecondaryColors),
		BrandDescription: b.BrandDescription,
		DataSource:       b.DataSource,
		Confidence:       b.Confidence,
		Domain:           b.Domain,
		IndustryTags:     stringSliceOrEmpty(b.IndustryTags),
		CompanyName:      b.CompanyName,
		Slogan:           b.Slogan,
	})
}

// UnmarshalJSON accepts both shapes, e.g. when reading stored assets back.
func (b *BrandAssets) UnmarshalJSON(data []byte) error {
	var wire struct {
		brandAssetsSuccess
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*b = BrandAssets{
		LogoURL:          wire.LogoURL,
		PrimaryColor:     wire.PrimaryColor,
		SecondaryColors:  wire.SecondaryColors,
		BrandDescription: wire.BrandDescription,
		DataSource:       wire.DataSource,
		Confidence:       wire.Confidence,
		Domain:           wire.Domain,
		IndustryTags:     wire.IndustryTags,
		CompanyName:      wire.CompanyName,
		Slogan:           wire.Slogan,
		Error:            wire.Error,
	}
	if b.Failed() {
		b.Confidence = 0
	}
	return nil
}

func stringSliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
