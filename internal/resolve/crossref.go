// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// crossrefAPIBase is the Crossref REST endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org"

const crossrefName = "Crossref"

// crossrefProvider resolves counts from the Crossref registry. DOI only.
type crossrefProvider struct{}

// NewCrossref returns the Crossref provider.
func NewCrossref() Provider { return &crossrefProvider{} }

func (p *crossrefProvider) Name() string { return crossrefName }

func (p *crossrefProvider) Kinds() []Kind { return []Kind{KindDOI} }

// LookupURL requests the work's CSL rendering, which carries the
// is-referenced-by-count field.
func (p *crossrefProvider) LookupURL(lk Lookup) (string, error) {
	if lk.Kind != KindDOI {
		return "", fmt.Errorf("crossref does not support %s lookups", lk.Kind)
	}
	return crossrefAPIBase + "/works/" + url.PathEscape(lk.ID) + "/transform/application/vnd.citationstyles.csl+json", nil
}

func (p *crossrefProvider) Headers() map[string]string { return nil }

func (p *crossrefProvider) ParseCount(_ context.Context, _ Kind, body []byte) (int, error) {
	var work crossrefWork
	if err := json.Unmarshal(body, &work); err != nil {
		return 0, fmt.Errorf("parsing Crossref response: %w", err)
	}
	return countValue(work.IsReferencedByCount)
}

// Crossref CSL JSON structure, trimmed to the field we read.
type crossrefWork struct {
	IsReferencedByCount json.Number `json:"is-referenced-by-count"`
}
