// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Creator is one author or editor of a record, in source order.
type Creator struct {
	// LastName is the family name, when the source splits names.
	LastName string `json:"last_name,omitempty" yaml:"last_name,omitempty"`

	// DisplayName is the single-field name used when no split form exists.
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
}

// Name returns the last name when present, else the display name.
func (c Creator) Name() string {
	if c.LastName != "" {
		return c.LastName
	}
	return c.DisplayName
}

// Record is one bibliographic item tracked by the engine. Citation counts
// are written only to Extra; every other field is read-only input.
type Record struct {
	// ID is the store key (e.g. "rec-2301.07041" or an imported key).
	ID string `json:"id" yaml:"id"`

	// Title is the work's title.
	Title string `json:"title" yaml:"title"`

	// DOI is the Digital Object Identifier, verbatim as entered.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL is free text and may embed a preprint reference
	// (e.g. "https://arxiv.org/abs/2301.07041v2").
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Year is the publication year; zero means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Date is a free-text date used as a fallback year source
	// (e.g. "2023-01-17" or "c. 1998").
	Date string `json:"date,omitempty" yaml:"date,omitempty"`

	// Creators lists authors in source order.
	Creators []Creator `json:"creators,omitempty" yaml:"creators,omitempty"`

	// Extra is the free-text field that carries the citation-count line
	// alongside any unrelated user content.
	Extra string `json:"extra,omitempty" yaml:"extra,omitempty"`

	// Transient marks feed-derived entries that batch runs skip.
	Transient bool `json:"transient,omitempty" yaml:"transient,omitempty"`
}

// FirstCreatorName returns the name of the first creator, or "".
func (r Record) FirstCreatorName() string {
	if len(r.Creators) == 0 {
		return ""
	}
	return r.Creators[0].Name()
}

// Label returns a short human-readable handle for progress output.
func (r Record) Label() string {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return r.ID
	}
	if r.ID == "" {
		return title
	}
	return r.ID + " " + title
}
