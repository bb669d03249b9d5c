package branddev

import (
	"fmt"
	"strings"

	"github.com/octobees/brand-enrichment/internal/entity"
	"github.com/octobees/brand-enrichment/internal/service/scoring"
)

// Normalize converts a raw 200 response into BrandAssets. The payload stays
// untyped only inside this function.
func Normalize(raw map[string]any, domain string) entity.BrandAssets {
	brand := object(raw["brand"])

	hexes := colorHexes(list(brand["colors"]))
	var primary *string
	secondary := []string{}
	if len(hexes) > 0 {
		primary = &hexes[0]
		secondary = append(secondary, hexes[1:]...)
	}

	return entity.BrandAssets{
		LogoURL:          selectLogo(list(brand["logos"])),
		PrimaryColor:     primary,
		SecondaryColors:  secondary,
		BrandDescription: optionalString(brand["description"]),
		DataSource:       entity.DataSourceBrandDev,
		Confidence:       scoring.ComputeConfidence(signals(brand)).Total,
		Domain:           domain,
		IndustryTags:     industryTags(list(object(brand["industries"])["eic"])),
		CompanyName:      optionalString(brand["title"]),
		Slogan:           optionalString(brand["slogan"]),
	}
}

func signals(brand map[string]any) scoring.BrandSignals {
	return scoring.BrandSignals{
		Logos:          len(list(brand["logos"])),
		Colors:         len(list(brand["colors"])),
		HasDescription: truthy(brand["description"]),
		Industries:     len(list(object(brand["industries"])["eic"])),
	}
}

func colorHexes(colors []any) []string {
	hexes := make([]string, 0, len(colors))
	for _, c := range colors {
		if hex := str(object(c)["hex"]); hex != "" {
			hexes = append(hexes, hex)
		}
	}
	return hexes
}

// selectLogo prefers the first SVG logo, then the first logo of any kind.
func selectLogo(logos []any) *string {
	if len(logos) == 0 {
		return nil
	}
	for _, l := range logos {
		if u := str(object(l)["url"]); strings.HasSuffix(u, ".svg") {
			return &u
		}
	}
	return optionalString(object(logos[0])["url"])
}

func industryTags(entries []any) []string {
	tags := []string{}
	for _, e := range entries {
		entry := object(e)
		industry := str(entry["industry"])
		if industry == "" {
			continue
		}
		tags = append(tags, fmt.Sprintf("%s - %s", industry, str(entry["subindustry"])))
	}
	return tags
}

func object(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func list(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return nil
}

func str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func optionalString(v any) *string {
	s := str(v)
	if s == "" {
		return nil
	}
	return &s
}

// truthy mirrors JSON truthiness: null, false, 0, "" and empty containers are false.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
