package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords() []types.Record {
	return []types.Record{
		{
			ID:       "rec-attention",
			Title:    "Attention Is All You Need",
			DOI:      "10.48550/arXiv.1706.03762",
			URL:      "https://arxiv.org/abs/1706.03762",
			Year:     2017,
			Creators: []types.Creator{{LastName: "Vaswani"}, {LastName: "Shazeer"}},
		},
		{
			ID:       "rec-gw",
			Title:    "Observation of Gravitational Waves from a Binary Black Hole Merger",
			DOI:      "10.1103/PhysRevLett.116.061102",
			Year:     2016,
			Date:     "2016-02-11",
			Creators: []types.Creator{{LastName: "Abbott", DisplayName: "B. P. Abbott"}},
			Extra:    "tex.ids: abbott2016",
		},
		{
			ID:        "rec-feed-item",
			Title:     "Some Feed Headline",
			Transient: true,
		},
	}
}

func putAll(t *testing.T, s *Store, recs []types.Record) {
	t.Helper()
	for _, rec := range recs {
		if err := s.Put(context.Background(), rec); err != nil {
			t.Fatalf("Put(%s): %v", rec.ID, err)
		}
	}
}

// --- Put / Get ---

func TestPutAndGet(t *testing.T) {
	s := testStore(t)
	want := sampleRecords()[1]
	putAll(t, s, []types.Record{want})

	got, err := s.Get(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.Title != want.Title || got.DOI != want.DOI || got.Year != want.Year {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
	if got.Date != "2016-02-11" {
		t.Errorf("Date = %q, want 2016-02-11", got.Date)
	}
	if got.Extra != want.Extra {
		t.Errorf("Extra = %q, want %q", got.Extra, want.Extra)
	}
	if len(got.Creators) != 1 || got.Creators[0].LastName != "Abbott" {
		t.Errorf("Creators = %+v, want Abbott", got.Creators)
	}
	if got.Creators[0].DisplayName != "B. P. Abbott" {
		t.Errorf("DisplayName = %q, want B. P. Abbott", got.Creators[0].DisplayName)
	}
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "rec-none")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}

func TestPutEmptyID(t *testing.T) {
	s := testStore(t)
	if err := s.Put(context.Background(), types.Record{Title: "no id"}); err == nil {
		t.Error("Put without id should fail")
	}
}

func TestPutUpserts(t *testing.T) {
	s := testStore(t)
	rec := sampleRecords()[0]
	putAll(t, s, []types.Record{rec})

	rec.Title = "Attention Is All You Need (v2)"
	putAll(t, s, []types.Record{rec})

	got, err := s.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Attention Is All You Need (v2)" {
		t.Errorf("Title = %q after upsert", got.Title)
	}

	all, err := s.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("upsert duplicated the row: %d records", len(all))
	}
}

// --- List ---

func TestListFiltersTransient(t *testing.T) {
	s := testStore(t)
	putAll(t, s, sampleRecords())

	durable, err := s.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(durable) != 2 {
		t.Fatalf("List(durable) = %d records, want 2", len(durable))
	}
	// Ordered by id.
	if durable[0].ID != "rec-attention" || durable[1].ID != "rec-gw" {
		t.Errorf("ids = %s, %s; want rec-attention, rec-gw", durable[0].ID, durable[1].ID)
	}

	all, err := s.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(all) = %d records, want 3", len(all))
	}
}

// --- Search ---

func TestSearchByTitle(t *testing.T) {
	s := testStore(t)
	putAll(t, s, sampleRecords())

	got, err := s.Search(context.Background(), "gravitational", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "rec-gw" {
		t.Errorf("Search(gravitational) = %+v, want rec-gw", got)
	}
}

func TestSearchByCreator(t *testing.T) {
	s := testStore(t)
	putAll(t, s, sampleRecords())

	got, err := s.Search(context.Background(), "vaswani", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "rec-attention" {
		t.Errorf("Search(vaswani) = %+v, want rec-attention", got)
	}
}

func TestSearchNoMatches(t *testing.T) {
	s := testStore(t)
	putAll(t, s, sampleRecords())

	got, err := s.Search(context.Background(), "neutrino", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Search(neutrino) = %+v, want none", got)
	}
}

func TestSearchTracksUpdates(t *testing.T) {
	s := testStore(t)
	rec := sampleRecords()[0]
	putAll(t, s, []types.Record{rec})

	rec.Title = "Sparse Transformer Decoding"
	putAll(t, s, []types.Record{rec})

	got, err := s.Search(context.Background(), "attention", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("stale index: Search(attention) = %+v after title change", got)
	}

	got, err = s.Search(context.Background(), "sparse", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Search(sparse) = %+v, want the renamed record", got)
	}
}

// --- UpdateExtra ---

func TestUpdateExtra(t *testing.T) {
	s := testStore(t)
	putAll(t, s, sampleRecords())

	const extra = "3558 citations (Crossref/DOI) [2026-08-25]\ntex.ids: abbott2016"
	if err := s.UpdateExtra(context.Background(), "rec-gw", extra); err != nil {
		t.Fatalf("UpdateExtra: %v", err)
	}

	got, err := s.Get(context.Background(), "rec-gw")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Extra != extra {
		t.Errorf("Extra = %q, want %q", got.Extra, extra)
	}
	// Untouched fields survive.
	if got.Title != sampleRecords()[1].Title {
		t.Errorf("Title changed by UpdateExtra: %q", got.Title)
	}
}

func TestUpdateExtraMissing(t *testing.T) {
	s := testStore(t)
	err := s.UpdateExtra(context.Background(), "rec-none", "x")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateExtra(missing) = %v, want ErrNotFound", err)
	}
}

// --- Lifecycle ---

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "records.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	putAll(t, s, sampleRecords())
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer s.Close()

	got, err := s.Get(context.Background(), "rec-gw")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.DOI != "10.1103/PhysRevLett.116.061102" {
		t.Errorf("DOI = %q after reopen", got.DOI)
	}

	// Reopening must not duplicate FTS rows.
	found, err := s.Search(context.Background(), "gravitational", 0)
	if err != nil {
		t.Fatalf("Search after reopen: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("Search after reopen = %d rows, want 1", len(found))
	}
}
