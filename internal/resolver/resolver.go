// Package resolver derives the lookup domain for a company.
//
// Strategies are pluggable so the lossy name heuristic can later be replaced
// by a real domain-lookup service without touching fetch or normalization.
package resolver

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	wwwPrefix     = regexp.MustCompile(`(?i)^www\.`)
	legalSuffix   = regexp.MustCompile(`(?i)\s+(Inc\.|LLC|Corp\.|Corporation|Ltd\.?|Limited)$`)
	nonAlnumChars = regexp.MustCompile(`[^a-z0-9]+`)
)

const guessedTLD = ".com"

// Resolver derives a domain from a company name and optional website URL.
// The boolean reports whether the strategy produced an answer; an answer may
// still be an empty string, which callers treat as unresolvable.
type Resolver interface {
	Resolve(companyName, websiteURL string) (string, bool)
}

// Chain tries each resolver in order and returns the first answer.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(companyName, websiteURL string) (string, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if domain, ok := r.Resolve(companyName, websiteURL); ok {
			return domain, true
		}
	}
	return "", false
}

// Default prefers the website URL and falls back to the name heuristic.
func Default() Chain {
	return Chain{URLResolver{}, NameResolver{}}
}

// URLResolver answers whenever a website URL is supplied, even if the URL
// yields nothing usable.
type URLResolver struct{}

// Resolve implements Resolver.
func (URLResolver) Resolve(_ string, websiteURL string) (string, bool) {
	if strings.TrimSpace(websiteURL) == "" {
		return "", false
	}
	return DomainFromURL(websiteURL), true
}

// DomainFromURL returns the host of raw without a leading "www.". Inputs
// without a scheme (e.g. "stripe.com") have no host, so the path is used
// instead. The result is not validated further.
func DomainFromURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	domain := parsed.Host
	if domain == "" {
		domain = parsed.Path
	}
	return wwwPrefix.ReplaceAllString(domain, "")
}

// NameResolver guesses "<name>.com" from a company name. The guess is never
// checked against DNS.
type NameResolver struct{}

// Resolve implements Resolver. Names that clean down to nothing produce no
// answer rather than the bare ".com".
func (NameResolver) Resolve(companyName, _ string) (string, bool) {
	domain := DomainFromName(companyName)
	if domain == "" {
		return "", false
	}
	return domain, true
}

// DomainFromName strips one trailing legal-entity suffix, drops everything
// that is not a lowercase ASCII letter or digit and appends ".com". It
// returns "" when nothing is left of the name.
func DomainFromName(companyName string) string {
	clean := legalSuffix.ReplaceAllString(companyName, "")
	clean = strings.ToLower(strings.TrimSpace(clean))
	clean = nonAlnumChars.ReplaceAllString(clean, "")
	if clean == "" {
		return ""
	}
	return clean + guessedTLD
}
