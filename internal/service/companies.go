package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/brand-enrichment/internal/dto"
	"github.com/octobees/brand-enrichment/internal/entity"
	"github.com/octobees/brand-enrichment/internal/repository"
)

var (
	// ErrInvalidCompanyID is returned when the company identifier is not a UUID.
	ErrInvalidCompanyID = errors.New("invalid company id")
	// ErrCompanyNotFound is returned when the company does not exist.
	ErrCompanyNotFound = repository.ErrCompanyNotFound
	// ErrBrandAssetsNotFound is returned when a company has not been brand-enriched yet.
	ErrBrandAssetsNotFound = repository.ErrBrandAssetsNotFound
)

// BrandLookup resolves and fetches brand assets for a company.
type BrandLookup interface {
	Lookup(ctx context.Context, companyName, websiteURL string) entity.BrandAssets
}

// CompaniesService exposes read/write operations for the company catalogue.
type CompaniesService struct {
	repo  repository.CompaniesRepository
	brand BrandLookup
}

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}

// UploadSummary reports how many rows were inserted or updated during import.
type UploadSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Total    int `json:"total"`
}

// NewCompaniesService creates a new instance of CompaniesService.
func NewCompaniesService(repo repository.CompaniesRepository, brand BrandLookup) *CompaniesService {
	return &CompaniesService{repo: repo, brand: brand}
}

// ListCompanies returns companies respecting pagination defaults.
func (s *CompaniesService) ListCompanies(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	if filter.MinConfidence != nil {
		clamped := min(max(*filter.MinConfidence, 0), 100)
		filter.MinConfidence = &clamped
	}
	return s.repo.List(ctx, filter)
}

// EnrichBrand looks up the company's brand and stores the result, including
// provider failures, on the company row.
func (s *CompaniesService) EnrichBrand(ctx context.Context, companyID string) (*entity.Company, error) {
	id, err := parseCompanyID(companyID)
	if err != nil {
		return nil, err
	}

	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	assets := s.brand.Lookup(ctx, company.Company, company.WebsiteURL())

	updated, err := s.repo.UpsertBrandAssets(ctx, id, assets)
	if err != nil {
		return nil, fmt.Errorf("store brand assets: %w", err)
	}
	return updated, nil
}

// GetBrandAssets returns the stored brand assets for a company.
func (s *CompaniesService) GetBrandAssets(ctx context.Context, companyID string) (*entity.BrandAssets, error) {
	id, err := parseCompanyID(companyID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetBrandAssets(ctx, id)
}

// ImportCompaniesCSV ingests companies data from a CSV reader.
func (s *CompaniesService) ImportCompaniesCSV(ctx context.Context, r io.Reader) (UploadSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return UploadSummary{}, CSVValidationError{Message: "csv file is empty"}
		}
		return UploadSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	indexMap, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return UploadSummary{}, valErr
	}

	var records []repository.BulkUpsertCompanyInput

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return UploadSummary{}, fmt.Errorf("read csv row: %w", err)
		}

		company := strings.TrimSpace(column(row, indexMap, "company"))
		if company == "" {
			continue
		}

		records = append(records, repository.BulkUpsertCompanyInput{
			Company: company,
			Website: normalizeString(column(row, indexMap, "website")),
			City:    normalizeString(column(row, indexMap, "city")),
			Country: normalizeString(column(row, indexMap, "country")),
		})
	}

	result, err := s.repo.BulkUpsertCompanies(ctx, records)
	if err != nil {
		return UploadSummary{}, err
	}

	return UploadSummary{
		Inserted: result.Inserted,
		Updated:  result.Updated,
		Total:    result.Total,
	}, nil
}

var requiredCSVHeaders = []string{"company", "website"}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

// column returns the named cell, or "" when the header or cell is absent.
func column(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseCompanyID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, ErrInvalidCompanyID
	}
	return id, nil
}

func normalizeString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
