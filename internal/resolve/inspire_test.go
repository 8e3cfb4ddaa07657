// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
)

// --- URL construction ---

func TestInspireLookupURL(t *testing.T) {
	tests := []struct {
		name   string
		lookup Lookup
		want   string
	}{
		{
			"doi",
			Lookup{Kind: KindDOI, ID: "10.1103/PhysRevLett.116.061102"},
			"https://inspirehep.net/api/doi/10.1103%2FPhysRevLett.116.061102?fields=citation_count",
		},
		{
			"arxiv id",
			Lookup{Kind: KindPreprint, ID: "1602.03837"},
			"https://inspirehep.net/api/arxiv/1602.03837?fields=citation_count",
		},
		{
			"old-style arxiv id",
			Lookup{Kind: KindPreprint, ID: "hep-th/9901001"},
			"https://inspirehep.net/api/arxiv/hep-th%2F9901001?fields=citation_count",
		},
	}
	p := NewInspire()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.LookupURL(tt.lookup)
			if err != nil {
				t.Fatalf("LookupURL: %v", err)
			}
			if got != tt.want {
				t.Errorf("LookupURL = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := p.LookupURL(Lookup{Kind: KindTitleAuthorYear, Title: "x"}); err == nil {
		t.Error("LookupURL(KindTitleAuthorYear): expected error")
	}
}

// --- Response parsing ---

func TestInspireParseCount(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"count present", `{"metadata":{"citation_count":3558,"titles":[{"title":"x"}]}}`, 3558, false},
		{"zero count", `{"metadata":{"citation_count":0}}`, 0, false},
		{"metadata missing", `{"id":"1234"}`, 0, true},
		{"count missing", `{"metadata":{"titles":[{"title":"x"}]}}`, 0, true},
		{"malformed body", `not json`, 0, true},
	}
	p := NewInspire()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseCount(context.Background(), KindDOI, []byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCount: expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCount: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCount = %d, want %d", got, tt.want)
			}
		})
	}
}

// --- Resolution round trip ---

func TestInspireResolveFallsBackToArxiv(t *testing.T) {
	// The DOI is not indexed; the arXiv id is. The engine moves on to the
	// second kind and succeeds.
	ts, calls := routeServer(t, map[string]route{
		"/doi/10.1103/PhysRevLett.116.061102": {http.StatusNotFound, `{"message":"PID does not exist"}`},
		"/arxiv/1602.03837":                   {http.StatusOK, `{"metadata":{"citation_count":3558}}`},
	})

	old := inspireAPIBase
	inspireAPIBase = ts.URL
	defer func() { inspireAPIBase = old }()

	got, err := Resolve(context.Background(), fullRecord(), NewInspire(), testValidator(ts.Client()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Value != 3558 {
		t.Errorf("Value = %d, want 3558", got.Value)
	}
	if got.Source != "INSPIRE-HEP/arXiv" {
		t.Errorf("Source = %q, want %q", got.Source, "INSPIRE-HEP/arXiv")
	}
	if n := atomic.LoadInt32(calls); n != 2 {
		t.Errorf("requests = %d, want 2", n)
	}
}
