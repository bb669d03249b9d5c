package dto

// Brand status values accepted by ListFilter.BrandStatus.
const (
	BrandStatusMissing   = "missing"
	BrandStatusAvailable = "available"
	BrandStatusFailed    = "failed"
)

// ListFilter contains query parameters for company listing endpoints.
type ListFilter struct {
	Q             string
	City          string
	Country       string
	BrandStatus   string
	MinConfidence *int
	Page          int
	PerPage       int
}
