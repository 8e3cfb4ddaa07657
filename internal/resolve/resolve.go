// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve looks up citation counts for bibliographic records from
// external providers. Each provider supports a subset of identifier kinds
// (DOI, arXiv id, title search); the engine tries them in the provider's
// order and stops at the first count.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Provider is one citation-count source. Implementations hold only
// configuration and are safe for concurrent use.
type Provider interface {
	// Name is the display name used in source labels and messages.
	Name() string

	// Kinds lists the identifier kinds this provider can look up, in the
	// order they should be attempted.
	Kinds() []Kind

	// LookupURL builds the request URL for one extracted lookup key.
	LookupURL(lk Lookup) (string, error)

	// Headers returns extra request headers, such as authorization.
	Headers() map[string]string

	// ParseCount extracts the citation count from a response body.
	ParseCount(ctx context.Context, kind Kind, body []byte) (int, error)
}

// noResultsProvider is implemented by providers that collapse an
// all-soft-failure outcome into a single "no results" error instead of
// surfacing the first individual miss.
type noResultsProvider interface {
	NoResultsError() *AttemptError
}

// Count is a successfully resolved citation count.
type Count struct {
	// Value is the count, zero or greater.
	Value int

	// Source labels where the count came from: "<provider>/<kind>",
	// e.g. "Crossref/DOI" or "NASA ADS/Title".
	Source string
}

// Resolve tries each identifier kind the provider supports, in order, and
// returns the first successful count. When every attempt fails it returns
// the most severe attempt error; ties go to the earliest attempt.
func Resolve(ctx context.Context, rec types.Record, p Provider, v *Validator) (Count, error) {
	kinds := p.Kinds()
	if len(kinds) == 0 {
		return Count{}, &AttemptError{Kind: FailUnknown, Provider: p.Name(), Err: ErrNoKinds}
	}

	var attempts []*AttemptError
	for _, kind := range kinds {
		lk, aerr := extract(rec, kind)
		if aerr != nil {
			aerr.Provider = p.Name()
			attempts = append(attempts, aerr)
			continue
		}

		n, aerr := v.Lookup(ctx, p, lk)
		if aerr != nil {
			attempts = append(attempts, aerr)
			continue
		}
		return Count{Value: n, Source: p.Name() + "/" + kind.String()}, nil
	}

	return Count{}, finalError(p, attempts)
}

// finalError picks the attempt error to surface after all kinds failed.
// A provider that reports exhaustive searches turns an all-soft outcome
// into its single no-results error.
func finalError(p Provider, attempts []*AttemptError) error {
	allSoft := true
	best := attempts[0]
	for _, a := range attempts {
		if !a.Kind.Soft() {
			allSoft = false
		}
		if a.Kind.Severity() > best.Kind.Severity() {
			best = a
		}
	}

	if nr, ok := p.(noResultsProvider); ok && allSoft {
		return nr.NoResultsError()
	}
	return best
}

// Providers returns the descriptor table in display order. adsKey is
// consulted on every ADS request, never cached.
func Providers(cfg types.LookupConfig, adsKey func() string) []Provider {
	return []Provider{
		NewCrossref(),
		NewInspire(),
		NewSemanticScholar(cfg),
		NewADS(adsKey),
	}
}

// ProviderByName resolves a provider by its short id ("crossref",
// "inspire", "semanticscholar", "nasaads") or display name.
func ProviderByName(name string, cfg types.LookupConfig, adsKey func() string) (Provider, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "")) {
	case "crossref":
		return NewCrossref(), nil
	case "inspire", "inspirehep", "inspire-hep":
		return NewInspire(), nil
	case "semanticscholar", "semantic-scholar", "s2":
		return NewSemanticScholar(cfg), nil
	case "nasaads", "nasa-ads", "ads":
		return NewADS(adsKey), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (use crossref, inspire, semanticscholar, or nasaads)", name)
	}
}
