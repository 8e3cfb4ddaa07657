package store

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language)
// format. The field names follow the CSL-JSON/CSL-YAML schema so files
// round-trip with Pandoc and reference managers. The extra field maps to
// the CSL note.
type CSLItem struct {
	ID     string    `yaml:"id"`
	Type   string    `yaml:"type"`
	Title  string    `yaml:"title"`
	Author []CSLName `yaml:"author,omitempty"`
	Issued *CSLDate  `yaml:"issued,omitempty"`
	DOI    string    `yaml:"DOI,omitempty"`
	URL    string    `yaml:"URL,omitempty"`
	Note   string    `yaml:"note,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

const cslDateFmt = "2006-01-02"

// ImportCSL reads a CSL-YAML list and converts each entry to a record.
// Entries without an id get a generated one so they can be stored.
func ImportCSL(r io.Reader) ([]types.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSL input: %w", err)
	}

	var items []CSLItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing CSL input: %w", err)
	}

	recs := make([]types.Record, len(items))
	for i, item := range items {
		recs[i] = fromCSLItem(item)
	}
	return recs, nil
}

// ExportCSL writes records as a CSL-YAML list to w.
func ExportCSL(w io.Writer, recs []types.Record) error {
	items := make([]CSLItem, len(recs))
	for i, rec := range recs {
		items[i] = toCSLItem(rec)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func fromCSLItem(item CSLItem) types.Record {
	rec := types.Record{
		ID:    item.ID,
		Title: item.Title,
		DOI:   item.DOI,
		URL:   item.URL,
		Extra: item.Note,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	for _, a := range item.Author {
		switch {
		case a.Family != "":
			rec.Creators = append(rec.Creators, types.Creator{LastName: a.Family})
		case a.Literal != "":
			rec.Creators = append(rec.Creators, types.Creator{DisplayName: a.Literal})
		}
	}

	if item.Issued != nil && len(item.Issued.DateParts) > 0 {
		parts := item.Issued.DateParts[0]
		if len(parts) > 0 {
			rec.Year = parts[0]
		}
		if len(parts) == 3 {
			rec.Date = fmt.Sprintf("%04d-%02d-%02d", parts[0], parts[1], parts[2])
		}
	}

	return rec
}

func toCSLItem(rec types.Record) CSLItem {
	item := CSLItem{
		ID:    rec.ID,
		Type:  "article",
		Title: rec.Title,
		DOI:   rec.DOI,
		URL:   rec.URL,
		Note:  rec.Extra,
	}

	for _, c := range rec.Creators {
		if c.LastName != "" {
			item.Author = append(item.Author, CSLName{Family: c.LastName})
		} else if c.DisplayName != "" {
			item.Author = append(item.Author, CSLName{Literal: c.DisplayName})
		}
	}

	if t, err := time.Parse(cslDateFmt, rec.Date); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{t.Year(), int(t.Month()), t.Day()}}}
	} else if rec.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{rec.Year}}}
	}

	return item
}
