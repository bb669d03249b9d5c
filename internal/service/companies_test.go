package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/octobees/brand-enrichment/internal/dto"
	"github.com/octobees/brand-enrichment/internal/entity"
	"github.com/octobees/brand-enrichment/internal/repository"
)

type mockCompaniesRepository struct {
	list      func(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error)
	getByID   func(ctx context.Context, id uuid.UUID) (*entity.Company, error)
	bulk      func(ctx context.Context, records []repository.BulkUpsertCompanyInput) (repository.BulkUpsertResult, error)
	upsert    func(ctx context.Context, id uuid.UUID, assets entity.BrandAssets) (*entity.Company, error)
	getAssets func(ctx context.Context, id uuid.UUID) (*entity.BrandAssets, error)
}

func (m *mockCompaniesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error) {
	if m.list != nil {
		return m.list(ctx, filter)
	}
	return nil, errors.New("list not implemented")
}

func (m *mockCompaniesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return nil, errors.New("get by id not implemented")
}

func (m *mockCompaniesRepository) BulkUpsertCompanies(ctx context.Context, records []repository.BulkUpsertCompanyInput) (repository.BulkUpsertResult, error) {
	if m.bulk != nil {
		return m.bulk(ctx, records)
	}
	return repository.BulkUpsertResult{}, errors.New("bulk not implemented")
}

func (m *mockCompaniesRepository) UpsertBrandAssets(ctx context.Context, id uuid.UUID, assets entity.BrandAssets) (*entity.Company, error) {
	if m.upsert != nil {
		return m.upsert(ctx, id, assets)
	}
	return nil, errors.New("upsert not implemented")
}

func (m *mockCompaniesRepository) GetBrandAssets(ctx context.Context, id uuid.UUID) (*entity.BrandAssets, error) {
	if m.getAssets != nil {
		return m.getAssets(ctx, id)
	}
	return nil, errors.New("get brand assets not implemented")
}

type brandLookupStub struct {
	names  []string
	urls   []string
	assets entity.BrandAssets
}

func (b *brandLookupStub) Lookup(ctx context.Context, companyName, websiteURL string) entity.BrandAssets {
	b.names = append(b.names, companyName)
	b.urls = append(b.urls, websiteURL)
	return b.assets
}

const testCompanyID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"

func TestCompaniesService_ListCompanies_AppliesDefaults(t *testing.T) {
	received := dto.ListFilter{}
	repo := &mockCompaniesRepository{
		list: func(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error) {
			received = filter
			return []entity.Company{{Company: "Acme"}}, nil
		},
	}

	service := NewCompaniesService(repo, &brandLookupStub{})
	companies, err := service.ListCompanies(context.Background(), dto.ListFilter{Page: -1, PerPage: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(companies) != 1 {
		t.Fatalf("expected 1 company, got %d", len(companies))
	}
	if received.Page != 1 {
		t.Fatalf("expected page default 1, got %d", received.Page)
	}
	if received.PerPage != 20 {
		t.Fatalf("expected per_page default 20, got %d", received.PerPage)
	}
}

func TestCompaniesService_ListCompanies_CapsPerPageAndConfidence(t *testing.T) {
	repo := &mockCompaniesRepository{
		list: func(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error) {
			if filter.PerPage != 100 {
				t.Fatalf("expected per_page capped at 100, got %d", filter.PerPage)
			}
			if filter.MinConfidence == nil || *filter.MinConfidence != 100 {
				t.Fatalf("expected min confidence clamped to 100, got %v", filter.MinConfidence)
			}
			return nil, nil
		},
	}
	service := NewCompaniesService(repo, &brandLookupStub{})
	minConfidence := 250
	if _, err := service.ListCompanies(context.Background(), dto.ListFilter{PerPage: 500, MinConfidence: &minConfidence}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompaniesService_EnrichBrand(t *testing.T) {
	website := "https://www.stripe.com"
	color := "#635bff"
	lookup := &brandLookupStub{assets: entity.BrandAssets{PrimaryColor: &color, DataSource: entity.DataSourceBrandDev, Domain: "stripe.com", Confidence: 30}}

	var stored entity.BrandAssets
	repo := &mockCompaniesRepository{
		getByID: func(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
			return &entity.Company{ID: id, Company: "Stripe", Website: &website}, nil
		},
		upsert: func(ctx context.Context, id uuid.UUID, assets entity.BrandAssets) (*entity.Company, error) {
			if id.String() != testCompanyID {
				t.Fatalf("unexpected id: %s", id)
			}
			stored = assets
			return &entity.Company{ID: id, Company: "Stripe", Website: &website, BrandAssets: &assets}, nil
		},
	}

	service := NewCompaniesService(repo, lookup)
	company, err := service.EnrichBrand(context.Background(), testCompanyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lookup.names) != 1 || lookup.names[0] != "Stripe" || lookup.urls[0] != website {
		t.Fatalf("unexpected lookup input: %+v %+v", lookup.names, lookup.urls)
	}
	if stored.Confidence != 30 || company.BrandAssets == nil || company.BrandAssets.Domain != "stripe.com" {
		t.Fatalf("unexpected stored assets: %+v", stored)
	}
}

func TestCompaniesService_EnrichBrand_StoresProviderFailures(t *testing.T) {
	lookup := &brandLookupStub{assets: entity.FailedBrandAssets("Brand not found", "acme.com")}
	stored := false
	repo := &mockCompaniesRepository{
		getByID: func(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
			return &entity.Company{ID: id, Company: "Acme"}, nil
		},
		upsert: func(ctx context.Context, id uuid.UUID, assets entity.BrandAssets) (*entity.Company, error) {
			stored = assets.Failed()
			return &entity.Company{ID: id, Company: "Acme", BrandAssets: &assets}, nil
		},
	}

	service := NewCompaniesService(repo, lookup)
	if _, err := service.EnrichBrand(context.Background(), testCompanyID); err != nil {
		t.Fatalf("provider failures must not surface as errors, got %v", err)
	}
	if !stored {
		t.Fatalf("expected failed lookup to be persisted")
	}
	if lookup.urls[0] != "" {
		t.Fatalf("expected empty website for company without one, got %q", lookup.urls[0])
	}
}

func TestCompaniesService_EnrichBrand_Errors(t *testing.T) {
	tests := map[string]struct {
		id      string
		repo    *mockCompaniesRepository
		wantErr error
	}{
		"invalid id": {
			id:      "not-a-uuid",
			repo:    &mockCompaniesRepository{},
			wantErr: ErrInvalidCompanyID,
		},
		"missing company": {
			id: testCompanyID,
			repo: &mockCompaniesRepository{
				getByID: func(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
					return nil, repository.ErrCompanyNotFound
				},
			},
			wantErr: ErrCompanyNotFound,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			lookup := &brandLookupStub{}
			service := NewCompaniesService(tt.repo, lookup)
			if _, err := service.EnrichBrand(context.Background(), tt.id); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(lookup.names) != 0 {
				t.Fatalf("lookup must not run on %s", name)
			}
		})
	}
}

func TestCompaniesService_GetBrandAssets(t *testing.T) {
	repo := &mockCompaniesRepository{
		getAssets: func(ctx context.Context, id uuid.UUID) (*entity.BrandAssets, error) {
			return nil, repository.ErrBrandAssetsNotFound
		},
	}
	service := NewCompaniesService(repo, &brandLookupStub{})

	if _, err := service.GetBrandAssets(context.Background(), testCompanyID); !errors.Is(err, ErrBrandAssetsNotFound) {
		t.Fatalf("expected ErrBrandAssetsNotFound, got %v", err)
	}
	if _, err := service.GetBrandAssets(context.Background(), "123"); !errors.Is(err, ErrInvalidCompanyID) {
		t.Fatalf("expected ErrInvalidCompanyID, got %v", err)
	}
}

func TestCompaniesService_ImportCompaniesCSV(t *testing.T) {
	tests := map[string]struct {
		csv         string
		mock        *mockCompaniesRepository
		expectError string
	}{
		"empty file": {
			csv:         ``,
			mock:        &mockCompaniesRepository{},
			expectError: "csv file is empty",
		},
		"missing headers": {
			csv:         "company,city\nAcme,Gotham",
			mock:        &mockCompaniesRepository{},
			expectError: "missing required columns: website",
		},
		"success": {
			csv: "Company,Website,City\n" +
				"Acme,https://acme.com,Gotham\n" +
				" ,https://blank.example,\n" +
				"Stripe,\n",
			mock: &mockCompaniesRepository{
				bulk: func(ctx context.Context, records []repository.BulkUpsertCompanyInput) (repository.BulkUpsertResult, error) {
					if len(records) != 2 {
						t.Fatalf("expected 2 records, got %d", len(records))
					}
					rec := records[0]
					if rec.Company != "Acme" || rec.Website == nil || *rec.Website != "https://acme.com" || rec.City == nil || rec.Country != nil {
						t.Fatalf("unexpected record payload: %+v", rec)
					}
					if records[1].Website != nil || records[1].City != nil {
						t.Fatalf("expected short row to yield nil optionals, got %+v", records[1])
					}
					return repository.BulkUpsertResult{Inserted: 1, Updated: 1, Total: 2}, nil
				},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			service := NewCompaniesService(tt.mock, &brandLookupStub{})
			summary, err := service.ImportCompaniesCSV(context.Background(), strings.NewReader(tt.csv))
			if tt.expectError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectError) {
					t.Fatalf("expected error containing %q, got %v", tt.expectError, err)
				}
				var csvErr CSVValidationError
				if !errors.As(err, &csvErr) {
					t.Fatalf("expected CSVValidationError, got %T", err)
				}
				if (summary != UploadSummary{}) {
					t.Fatalf("expected zero summary on error, got %+v", summary)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if summary.Inserted != 1 || summary.Updated != 1 || summary.Total != 2 {
				t.Fatalf("unexpected summary: %+v", summary)
			}
		})
	}
}

func TestBuildHeaderIndex(t *testing.T) {
	index, err := buildHeaderIndex([]string{" Company ", "WEBSITE", "country"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index["company"] != 0 || index["website"] != 1 || index["country"] != 2 {
		t.Fatalf("unexpected index: %+v", index)
	}
	if _, err := buildHeaderIndex([]string{"name"}); err == nil || !strings.Contains(err.Error(), "company, website") {
		t.Fatalf("expected both columns reported missing, got %v", err)
	}
}

func TestNormalizeString(t *testing.T) {
	if normalizeString("   ") != nil {
		t.Fatalf("expected nil for blank input")
	}
	if got := normalizeString(" Berlin "); got == nil || *got != "Berlin" {
		t.Fatalf("expected trimmed value, got %v", got)
	}
}
