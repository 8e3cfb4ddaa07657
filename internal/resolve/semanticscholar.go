// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// semanticAPIBase is the Semantic Scholar graph endpoint. Declared as a
// var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1"

const semanticName = "Semantic Scholar"

// semanticProvider resolves counts from the Semantic Scholar graph.
// Every response is followed by a mandatory pause so back-to-back
// lookups stay inside the public rate budget.
type semanticProvider struct {
	apiKey string
	delay  time.Duration
}

// NewSemanticScholar returns the Semantic Scholar provider configured
// with the optional API key and post-response delay.
func NewSemanticScholar(cfg types.LookupConfig) Provider {
	return &semanticProvider{
		apiKey: cfg.SemanticScholarAPIKey,
		delay:  cfg.SemanticScholarDelay,
	}
}

func (p *semanticProvider) Name() string { return semanticName }

func (p *semanticProvider) Kinds() []Kind {
	return []Kind{KindDOI, KindPreprint, KindTitleAuthorYear}
}

func (p *semanticProvider) LookupURL(lk Lookup) (string, error) {
	switch lk.Kind {
	case KindDOI:
		return semanticAPIBase + "/paper/DOI:" + url.PathEscape(lk.ID) + "?fields=citationCount", nil
	case KindPreprint:
		return semanticAPIBase + "/paper/arXiv:" + url.PathEscape(lk.ID) + "?fields=citationCount", nil
	case KindTitleAuthorYear:
		query := lk.Title
		if lk.Author != "" {
			query += " " + lk.Author
		}
		params := url.Values{
			"query":  {query},
			"fields": {"title,citationCount"},
			"limit":  {"1"},
		}
		if lk.Year > 0 {
			params.Set("year", strconv.Itoa(lk.Year))
		}
		return semanticAPIBase + "/paper/search?" + params.Encode(), nil
	default:
		return "", fmt.Errorf("Semantic Scholar does not support %s lookups", lk.Kind)
	}
}

func (p *semanticProvider) Headers() map[string]string {
	if p.apiKey == "" {
		return nil
	}
	return map[string]string{"x-api-key": p.apiKey}
}

// ParseCount reads the count, then waits out the mandatory post-response
// delay before returning — success or not — so the pause is always paid.
func (p *semanticProvider) ParseCount(ctx context.Context, kind Kind, body []byte) (int, error) {
	n, err := p.parse(kind, body)

	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(p.delay):
		}
	}

	if err != nil {
		return 0, err
	}
	return n, nil
}

func (p *semanticProvider) parse(kind Kind, body []byte) (int, error) {
	if kind == KindTitleAuthorYear {
		var sr semanticSearch
		if err := json.Unmarshal(body, &sr); err != nil {
			return 0, fmt.Errorf("parsing Semantic Scholar response: %w", err)
		}
		if sr.Total == 0 || len(sr.Data) == 0 {
			return 0, fmt.Errorf("title search: %w", ErrNoSearchResults)
		}
		return countValue(sr.Data[0].CitationCount)
	}

	var paper semanticPaper
	if err := json.Unmarshal(body, &paper); err != nil {
		return 0, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	return countValue(paper.CitationCount)
}

// Semantic Scholar API JSON structures, trimmed to the fields we read.
type semanticPaper struct {
	CitationCount json.Number `json:"citationCount"`
}

type semanticSearch struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}
