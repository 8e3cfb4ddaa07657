// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// adsAPIBase is the NASA ADS search endpoint. Declared as a var so tests
// can substitute an httptest server.
var adsAPIBase = "https://api.adsabs.harvard.edu/v1"

const adsName = "NASA ADS"

// adsProvider resolves counts from the NASA ADS astronomy index. The
// token is read through key on every request so a key set or rotated
// mid-run takes effect immediately.
type adsProvider struct {
	key func() string
}

// NewADS returns the NASA ADS provider. key may return "" when no token
// is configured; the resulting 401 surfaces as an auth failure.
func NewADS(key func() string) Provider {
	if key == nil {
		key = func() string { return "" }
	}
	return &adsProvider{key: key}
}

func (p *adsProvider) Name() string { return adsName }

func (p *adsProvider) Kinds() []Kind {
	return []Kind{KindDOI, KindPreprint, KindTitleAuthorYear}
}

func (p *adsProvider) LookupURL(lk Lookup) (string, error) {
	var q string
	switch lk.Kind {
	case KindDOI:
		q = `doi:"` + lk.ID + `"`
	case KindPreprint:
		q = "arxiv:" + lk.ID
	case KindTitleAuthorYear:
		var parts []string
		parts = append(parts, `title:"`+lk.Title+`"`)
		if lk.Author != "" {
			parts = append(parts, `author:"`+lk.Author+`"`)
		}
		if lk.Year > 0 {
			parts = append(parts, "year:"+strconv.Itoa(lk.Year))
		}
		q = strings.Join(parts, " ")
	default:
		return "", fmt.Errorf("NASA ADS does not support %s lookups", lk.Kind)
	}

	params := url.Values{
		"q":    {q},
		"fl":   {"citation_count"},
		"rows": {"1"},
	}
	return adsAPIBase + "/search/query?" + params.Encode(), nil
}

// Headers reads the token fresh on every call.
func (p *adsProvider) Headers() map[string]string {
	k := p.key()
	if k == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + k}
}

func (p *adsProvider) ParseCount(_ context.Context, _ Kind, body []byte) (int, error) {
	var sr adsSearch
	if err := json.Unmarshal(body, &sr); err != nil {
		return 0, fmt.Errorf("parsing NASA ADS response: %w", err)
	}
	if sr.Response.NumFound == 0 || len(sr.Response.Docs) == 0 {
		return 0, fmt.Errorf("ADS query: %w", ErrNoSearchResults)
	}
	return countValue(sr.Response.Docs[0].CitationCount)
}

// NoResultsError collapses an all-soft failure across DOI, arXiv, and
// title search into the single outcome ADS users see.
func (p *adsProvider) NoResultsError() *AttemptError {
	return &AttemptError{
		Kind:     FailNoResults,
		Provider: adsName,
		Err:      fmt.Errorf("no results for DOI, arXiv id, or title search: %w", ErrNoSearchResults),
	}
}

// NASA ADS API JSON structure, trimmed to the fields we read.
type adsSearch struct {
	Response struct {
		NumFound int `json:"numFound"`
		Docs     []struct {
			CitationCount json.Number `json:"citation_count"`
		} `json:"docs"`
	} `json:"response"`
}
