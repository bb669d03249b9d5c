package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/brand-enrichment/internal/dto"
	"github.com/octobees/brand-enrichment/internal/entity"
)

// CompaniesRepository describes persistence operations for companies.
type CompaniesRepository interface {
	List(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error)
	BulkUpsertCompanies(ctx context.Context, records []BulkUpsertCompanyInput) (BulkUpsertResult, error)
	UpsertBrandAssets(ctx context.Context, id uuid.UUID, assets entity.BrandAssets) (*entity.Company, error)
	GetBrandAssets(ctx context.Context, id uuid.UUID) (*entity.BrandAssets, error)
}

var (
	// ErrCompanyNotFound indicates no company row matches the identifier.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrBrandAssetsNotFound indicates the company has never been brand-enriched.
	ErrBrandAssetsNotFound = errors.New("brand assets not found")
)

type pgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// BulkUpsertCompanyInput represents the fields accepted by CSV ingestion.
type BulkUpsertCompanyInput struct {
	Company string
	Website *string
	City    *string
	Country *string
}

// BulkUpsertResult summarises the number of rows inserted or updated.
type BulkUpsertResult struct {
	Inserted int
	Updated  int
	Total    int
}

// PGXCompaniesRepository implements CompaniesRepository using pgx.
type PGXCompaniesRepository struct {
	pool pgxPool
}

// NewPGXCompaniesRepository wires a pgx backed repository.
func NewPGXCompaniesRepository(pool *pgxpool.Pool) *PGXCompaniesRepository {
	return &PGXCompaniesRepository{pool: pool}
}

const companyColumns = `id, company, website, city, country, brand_assets, brand_fetched_at, created_at, updated_at`

const bulkUpsertSQL = `
        INSERT INTO companies (company, website, city, country, updated_at)
        VALUES ($1,$2,$3,$4,NOW())
        ON CONFLICT (company, website) DO UPDATE SET
            city = EXCLUDED.city,
            country = EXCLUDED.country,
            updated_at = NOW()
        RETURNING xmax = 0;
    `

// BulkUpsertCompanies persists a batch of companies with idempotent semantics.
func (r *PGXCompaniesRepository) BulkUpsertCompanies(ctx context.Context, records []BulkUpsertCompanyInput) (BulkUpsertResult, error) {
	var result BulkUpsertResult
	if len(records) == 0 {
		return result, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start bulk upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		var inserted bool
		err := tx.QueryRow(ctx, bulkUpsertSQL,
			record.Company,
			websiteKey(record.Website),
			stringOrNil(record.City),
			stringOrNil(record.Country),
		).Scan(&inserted)
		if err != nil {
			return result, fmt.Errorf("bulk upsert company %q: %w", record.Company, err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit bulk upsert tx: %w", err)
	}

	return result, nil
}

// List retrieves companies matching the provided filter, most confident brands first.
func (r *PGXCompaniesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString("SELECT " + companyColumns + " FROM companies")

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		clauses = append(clauses, fmt.Sprintf("(company ILIKE $%d OR website ILIKE $%d)", idx, idx+1))
		args = append(args, pattern, pattern)
		idx += 2
	}
	if filter.City != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(city) = LOWER($%d)", idx))
		args = append(args, filter.City)
		idx++
	}
	if filter.Country != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(country) = LOWER($%d)", idx))
		args = append(args, filter.Country)
		idx++
	}
	switch strings.ToLower(filter.BrandStatus) {
	case dto.BrandStatusMissing:
		clauses = append(clauses, "brand_assets IS NULL")
	case dto.BrandStatusAvailable:
		clauses = append(clauses, "brand_assets IS NOT NULL AND NOT (brand_assets ? 'error')")
	case dto.BrandStatusFailed:
		clauses = append(clauses, "brand_assets ? 'error'")
	}
	if filter.MinConfidence != nil {
		clauses = append(clauses, fmt.Sprintf("COALESCE((brand_assets->>'confidence')::int, 0) >= $%d", idx))
		args = append(args, *filter.MinConfidence)
		idx++
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}

	baseQuery.WriteString(" ORDER BY COALESCE((brand_assets->>'confidence')::int, -1) DESC, company ASC")

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage
	baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []entity.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return companies, nil
}

// GetByID loads a single company.
func (r *PGXCompaniesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+companyColumns+" FROM companies WHERE id = $1", id)
	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return company, nil
}

// UpsertBrandAssets stores the latest lookup result for a company and stamps
// brand_fetched_at. Failed lookups are stored as well so they can be listed.
func (r *PGXCompaniesRepository) UpsertBrandAssets(ctx context.Context, id uuid.UUID, assets entity.BrandAssets) (*entity.Company, error) {
	payload, err := json.Marshal(assets)
	if err != nil {
		return nil, fmt.Errorf("marshal brand assets: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
        UPDATE companies
        SET brand_assets = $2::jsonb, brand_fetched_at = NOW(), updated_at = NOW()
        WHERE id = $1
        RETURNING `+companyColumns, id, string(payload))

	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return company, nil
}

// GetBrandAssets returns the stored brand assets for a company.
func (r *PGXCompaniesRepository) GetBrandAssets(ctx context.Context, id uuid.UUID) (*entity.BrandAssets, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT brand_assets FROM companies WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("fetch brand assets: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrBrandAssetsNotFound
	}

	var assets entity.BrandAssets
	if err := json.Unmarshal(raw, &assets); err != nil {
		return nil, fmt.Errorf("unmarshal brand assets: %w", err)
	}
	return &assets, nil
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var (
		c         entity.Company
		website   sql.NullString
		city      sql.NullString
		country   sql.NullString
		assets    []byte
		fetchedAt sql.NullTime
	)

	err := row.Scan(
		&c.ID,
		&c.Company,
		&website,
		&city,
		&country,
		&assets,
		&fetchedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}

	c.Website = nullStringToPtr(website)
	c.City = nullStringToPtr(city)
	c.Country = nullStringToPtr(country)
	if len(assets) > 0 {
		var decoded entity.BrandAssets
		if err := json.Unmarshal(assets, &decoded); err != nil {
			return nil, fmt.Errorf("unmarshal brand assets: %w", err)
		}
		c.BrandAssets = &decoded
	}
	if fetchedAt.Valid {
		ts := fetchedAt.Time
		c.BrandFetchedAt = &ts
	}

	return &c, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid && value.String != "" {
		val := value.String
		return &val
	}
	return nil
}

// websiteKey keeps the (company, website) conflict target usable for rows
// without a website.
func websiteKey(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func stringOrNil(value *string) any {
	if value == nil {
		return nil
	}
	if *value == "" {
		return nil
	}
	return *value
}
