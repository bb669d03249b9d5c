package service

import (
	"context"
	"log"
	"time"

	"github.com/octobees/brand-enrichment/internal/entity"
	"github.com/octobees/brand-enrichment/internal/metrics"
	"github.com/octobees/brand-enrichment/internal/resolver"
)

// MessageDomainUnresolvable is reported when no lookup domain can be derived.
const MessageDomainUnresolvable = "Could not determine company domain"

// BrandFetcher performs a single brand lookup. Implementations report failures
// inside the returned assets.
type BrandFetcher interface {
	Fetch(ctx context.Context, domain string) entity.BrandAssets
}

// LookupRecorder is notified of lookups that never reach the provider.
type LookupRecorder interface {
	ObserveLookup(outcome string, latency time.Duration, confidence int)
}

// BrandService resolves a company's domain, fetches its brand and merges the
// result into company records.
type BrandService struct {
	resolver resolver.Resolver
	fetcher  BrandFetcher
	recorder LookupRecorder
}

// BrandServiceOption configures optional dependencies.
type BrandServiceOption func(*BrandService)

// WithResolver swaps the domain resolution strategy.
func WithResolver(r resolver.Resolver) BrandServiceOption {
	return func(s *BrandService) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithLookupRecorder attaches a recorder for unresolvable lookups.
func WithLookupRecorder(r LookupRecorder) BrandServiceOption {
	return func(s *BrandService) {
		s.recorder = r
	}
}

// NewBrandService wires a BrandService around fetcher.
func NewBrandService(fetcher BrandFetcher, opts ...BrandServiceOption) *BrandService {
	s := &BrandService{
		resolver: resolver.Default(),
		fetcher:  fetcher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveDomain returns the lookup domain for a company, or "" when none can
// be derived.
func (s *BrandService) ResolveDomain(companyName, websiteURL string) string {
	domain, ok := s.resolver.Resolve(companyName, websiteURL)
	if !ok {
		return ""
	}
	return domain
}

// Lookup resolves the domain and fetches brand assets without touching any
// record.
func (s *BrandService) Lookup(ctx context.Context, companyName, websiteURL string) entity.BrandAssets {
	domain := s.ResolveDomain(companyName, websiteURL)
	if domain == "" {
		if s.recorder != nil {
			s.recorder.ObserveLookup(metrics.OutcomeUnresolvable, 0, 0)
		}
		log.Printf("brand lookup company=%q outcome=%s", companyName, metrics.OutcomeUnresolvable)
		return entity.FailedBrandAssets(MessageDomainUnresolvable, "")
	}
	return s.fetcher.Fetch(ctx, domain)
}

// Enrich sets record["brandAssets"] and returns the same record. Every other
// key is left untouched. A nil record is replaced with a new one.
func (s *BrandService) Enrich(ctx context.Context, record entity.CompanyRecord, companyName, websiteURL string) entity.CompanyRecord {
	if record == nil {
		record = entity.CompanyRecord{}
	}
	record[entity.BrandAssetsKey] = s.Lookup(ctx, companyName, websiteURL)
	return record
}
