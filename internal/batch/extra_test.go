// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import "testing"

// --- Merge-write ---

func TestMergeCitationLine(t *testing.T) {
	tests := []struct {
		name   string
		extra  string
		count  int
		source string
		want   string
	}{
		{
			"empty extra",
			"",
			42, "Crossref/DOI",
			"42 citations (Crossref/DOI) [2026-08-25]",
		},
		{
			"unrelated lines kept below",
			"tex.ids: abbott2016\narXiv: 1602.03837",
			42, "Crossref/DOI",
			"42 citations (Crossref/DOI) [2026-08-25]\ntex.ids: abbott2016\narXiv: 1602.03837",
		},
		{
			"stale same-source line replaced",
			"17 citations (Crossref/DOI) [2025-11-02]\ntex.ids: abbott2016",
			42, "Crossref/DOI",
			"42 citations (Crossref/DOI) [2026-08-25]\ntex.ids: abbott2016",
		},
		{
			"stale line replaced wherever it sits",
			"tex.ids: abbott2016\n17 citations (Crossref/DOI) [2025-11-02]\nnote below",
			42, "Crossref/DOI",
			"42 citations (Crossref/DOI) [2026-08-25]\ntex.ids: abbott2016\nnote below",
		},
		{
			"legacy format removed",
			"Citations (Crossref/DOI): 17\ntex.ids: abbott2016",
			42, "Crossref/DOI",
			"42 citations (Crossref/DOI) [2026-08-25]\ntex.ids: abbott2016",
		},
		{
			"case-insensitive source match",
			"17 CITATIONS (crossref/doi) [2025-11-02]",
			42, "Crossref/DOI",
			"42 citations (Crossref/DOI) [2026-08-25]",
		},
		{
			"other sources untouched",
			"17 citations (NASA ADS/DOI) [2025-11-02]",
			42, "Crossref/DOI",
			"42 citations (Crossref/DOI) [2026-08-25]\n17 citations (NASA ADS/DOI) [2025-11-02]",
		},
		{
			"only stale content collapses to the new line",
			"17 citations (Crossref/DOI) [2025-11-02]",
			42, "Crossref/DOI",
			"42 citations (Crossref/DOI) [2026-08-25]",
		},
		{
			"mid-line mention is not a citation line",
			"see: 17 citations (Crossref/DOI) says the referee",
			42, "Crossref/DOI",
			"42 citations (Crossref/DOI) [2026-08-25]\nsee: 17 citations (Crossref/DOI) says the referee",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeCitationLine(tt.extra, tt.count, tt.source)
			if got != tt.want {
				t.Errorf("mergeCitationLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeCitationLineIdempotent(t *testing.T) {
	extra := "tex.ids: abbott2016"
	once := mergeCitationLine(extra, 42, "Crossref/DOI")
	twice := mergeCitationLine(once, 42, "Crossref/DOI")
	if once != twice {
		t.Errorf("second merge changed the field:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestMergeCitationLineQuotesSource(t *testing.T) {
	// Regex metacharacters in a source label must match literally.
	extra := "17 citations (O(d)-Index/DOI) [2025-11-02]\nnote"
	got := mergeCitationLine(extra, 42, "O(d)-Index/DOI")
	want := "42 citations (O(d)-Index/DOI) [2026-08-25]\nnote"
	if got != want {
		t.Errorf("mergeCitationLine() = %q, want %q", got, want)
	}
}
