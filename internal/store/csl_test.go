package store

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// --- Import ---

func TestImportCSL(t *testing.T) {
	input := `- id: abbott2016
  type: article-journal
  title: Observation of Gravitational Waves from a Binary Black Hole Merger
  author:
    - family: Abbott
      given: B. P.
  issued:
    date-parts:
      - [2016, 2, 11]
  DOI: 10.1103/PhysRevLett.116.061102
  note: "tex.ids: abbott2016"
- type: article
  title: An Anonymous Preprint
  author:
    - literal: The ATLAS Collaboration
  issued:
    date-parts:
      - [2023]
  URL: https://arxiv.org/abs/2301.07041
`

	recs, err := ImportCSL(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportCSL: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("imported %d records, want 2", len(recs))
	}

	first := recs[0]
	if first.ID != "abbott2016" {
		t.Errorf("ID = %q, want abbott2016", first.ID)
	}
	if first.DOI != "10.1103/PhysRevLett.116.061102" {
		t.Errorf("DOI = %q", first.DOI)
	}
	if first.Year != 2016 || first.Date != "2016-02-11" {
		t.Errorf("Year/Date = %d/%q, want 2016/2016-02-11", first.Year, first.Date)
	}
	if len(first.Creators) != 1 || first.Creators[0].LastName != "Abbott" {
		t.Errorf("Creators = %+v, want Abbott", first.Creators)
	}
	if first.Extra != "tex.ids: abbott2016" {
		t.Errorf("Extra = %q", first.Extra)
	}

	second := recs[1]
	if second.ID == "" {
		t.Error("missing CSL id should be filled with a generated one")
	}
	if second.Year != 2023 || second.Date != "" {
		t.Errorf("Year/Date = %d/%q, want 2023 with no full date", second.Year, second.Date)
	}
	if len(second.Creators) != 1 || second.Creators[0].DisplayName != "The ATLAS Collaboration" {
		t.Errorf("Creators = %+v, want literal name", second.Creators)
	}
	if second.URL != "https://arxiv.org/abs/2301.07041" {
		t.Errorf("URL = %q", second.URL)
	}
}

func TestImportCSLMalformed(t *testing.T) {
	if _, err := ImportCSL(strings.NewReader("- id: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

// --- Export ---

func TestToCSLItem(t *testing.T) {
	rec := types.Record{
		ID:       "rec-gw",
		Title:    "Observation of Gravitational Waves from a Binary Black Hole Merger",
		DOI:      "10.1103/PhysRevLett.116.061102",
		Date:     "2016-02-11",
		Year:     2016,
		Creators: []types.Creator{{LastName: "Abbott"}, {DisplayName: "LIGO Scientific Collaboration"}},
		Extra:    "3558 citations (Crossref/DOI) [2026-08-25]",
	}

	item := toCSLItem(rec)

	if item.ID != "rec-gw" || item.Type != "article" {
		t.Errorf("ID/Type = %q/%q", item.ID, item.Type)
	}
	if item.DOI != rec.DOI {
		t.Errorf("DOI = %q", item.DOI)
	}
	if item.Note != rec.Extra {
		t.Errorf("Note = %q, want the extra field", item.Note)
	}
	if len(item.Author) != 2 {
		t.Fatalf("len(Author) = %d, want 2", len(item.Author))
	}
	if item.Author[0].Family != "Abbott" {
		t.Errorf("Author[0] = %+v, want family Abbott", item.Author[0])
	}
	if item.Author[1].Literal != "LIGO Scientific Collaboration" {
		t.Errorf("Author[1] = %+v, want literal name", item.Author[1])
	}
	if item.Issued == nil || len(item.Issued.DateParts) != 1 {
		t.Fatalf("Issued = %+v, want one date-parts entry", item.Issued)
	}
	if got := item.Issued.DateParts[0]; len(got) != 3 || got[0] != 2016 || got[1] != 2 || got[2] != 11 {
		t.Errorf("DateParts = %v, want [2016 2 11]", got)
	}
}

func TestToCSLItemYearOnly(t *testing.T) {
	// The free-text date is unparseable, so only the year goes out.
	item := toCSLItem(types.Record{ID: "r1", Title: "T", Year: 1998, Date: "c. 1998"})
	if item.Issued == nil || len(item.Issued.DateParts) != 1 {
		t.Fatalf("Issued = %+v", item.Issued)
	}
	if got := item.Issued.DateParts[0]; len(got) != 1 || got[0] != 1998 {
		t.Errorf("DateParts = %v, want [1998]", got)
	}
}

func TestExportCSLOutput(t *testing.T) {
	recs := []types.Record{
		{
			ID:       "rec-gw",
			Title:    "Observation of Gravitational Waves from a Binary Black Hole Merger",
			DOI:      "10.1103/PhysRevLett.116.061102",
			Creators: []types.Creator{{LastName: "Abbott"}},
		},
	}

	var buf bytes.Buffer
	if err := ExportCSL(&buf, recs); err != nil {
		t.Fatalf("ExportCSL: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"id: rec-gw",
		"type: article",
		"DOI: 10.1103/PhysRevLett.116.061102",
		"family: Abbott",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export output missing %q:\n%s", want, out)
		}
	}
}

// --- Round trip ---

func TestCitationLineSurvivesRoundTrip(t *testing.T) {
	orig := types.Record{
		ID:    "rec-gw",
		Title: "Observation of Gravitational Waves",
		Extra: "3558 citations (NASA ADS/DOI) [2026-08-25]\nkeep: me",
	}

	var buf bytes.Buffer
	if err := ExportCSL(&buf, []types.Record{orig}); err != nil {
		t.Fatalf("ExportCSL: %v", err)
	}
	recs, err := ImportCSL(&buf)
	if err != nil {
		t.Fatalf("ImportCSL: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("round trip produced %d records", len(recs))
	}
	if recs[0].Extra != orig.Extra {
		t.Errorf("Extra = %q, want %q", recs[0].Extra, orig.Extra)
	}
}
