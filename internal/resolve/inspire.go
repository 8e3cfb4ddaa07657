// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// inspireAPIBase is the INSPIRE-HEP literature endpoint. Declared as a
// var so tests can substitute an httptest server.
var inspireAPIBase = "https://inspirehep.net/api"

const inspireName = "INSPIRE-HEP"

// inspireProvider resolves counts from the INSPIRE-HEP physics index.
type inspireProvider struct{}

// NewInspire returns the INSPIRE-HEP provider.
func NewInspire() Provider { return &inspireProvider{} }

func (p *inspireProvider) Name() string { return inspireName }

func (p *inspireProvider) Kinds() []Kind { return []Kind{KindDOI, KindPreprint} }

func (p *inspireProvider) LookupURL(lk Lookup) (string, error) {
	switch lk.Kind {
	case KindDOI:
		return inspireAPIBase + "/doi/" + url.PathEscape(lk.ID) + "?fields=citation_count", nil
	case KindPreprint:
		return inspireAPIBase + "/arxiv/" + url.PathEscape(lk.ID) + "?fields=citation_count", nil
	default:
		return "", fmt.Errorf("INSPIRE-HEP does not support %s lookups", lk.Kind)
	}
}

func (p *inspireProvider) Headers() map[string]string { return nil }

func (p *inspireProvider) ParseCount(_ context.Context, _ Kind, body []byte) (int, error) {
	var rec inspireRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return 0, fmt.Errorf("parsing INSPIRE-HEP response: %w", err)
	}
	return countValue(rec.Metadata.CitationCount)
}

// INSPIRE-HEP API JSON structure, trimmed to the field we read.
type inspireRecord struct {
	Metadata struct {
		CitationCount json.Number `json:"citation_count"`
	} `json:"metadata"`
}
