// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists bibliographic records in SQLite and keeps a
// full-text index over titles and creators for lookup by search.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// ErrNotFound reports a record id with no row behind it.
var ErrNotFound = errors.New("record not found")

const defaultSearchLimit = 20

// Store manages the records SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the records database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT,
			doi TEXT,
			url TEXT,
			year INTEGER,
			date TEXT,
			creators TEXT,
			creators_text TEXT,
			extra TEXT,
			transient INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_transient ON records(transient)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE records_fts USING fts5(title, creators_text, content=records, content_rowid=rowid)`,
			`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
				INSERT INTO records_fts(rowid, title, creators_text) VALUES (new.rowid, new.title, new.creators_text);
			END`,
			`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, title, creators_text) VALUES('delete', old.rowid, old.title, old.creators_text);
			END`,
			`CREATE TRIGGER records_au AFTER UPDATE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, title, creators_text) VALUES('delete', old.rowid, old.title, old.creators_text);
				INSERT INTO records_fts(rowid, title, creators_text) VALUES (new.rowid, new.title, new.creators_text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Put inserts or replaces a record by id.
func (s *Store) Put(ctx context.Context, rec types.Record) error {
	if rec.ID == "" {
		return errors.New("record id is empty")
	}

	creatorsJSON, err := json.Marshal(rec.Creators)
	if err != nil {
		return fmt.Errorf("marshaling creators: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, title, doi, url, year, date, creators, creators_text, extra, transient, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, doi=excluded.doi, url=excluded.url,
			year=excluded.year, date=excluded.date, creators=excluded.creators,
			creators_text=excluded.creators_text, extra=excluded.extra,
			transient=excluded.transient, updated_at=excluded.updated_at`,
		rec.ID, rec.Title, rec.DOI, rec.URL, rec.Year, rec.Date,
		string(creatorsJSON), creatorsText(rec.Creators), rec.Extra,
		boolToInt(rec.Transient), nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting record %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (types.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, doi, url, year, date, creators, extra, transient
		 FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Record{}, fmt.Errorf("record %s: %w", id, ErrNotFound)
		}
		return types.Record{}, fmt.Errorf("reading record %s: %w", id, err)
	}
	return rec, nil
}

// List returns all records ordered by id. When includeTransient is false,
// feed-derived entries are filtered out.
func (s *Store) List(ctx context.Context, includeTransient bool) ([]types.Record, error) {
	query := `SELECT id, title, doi, url, year, date, creators, extra, transient
		 FROM records`
	if !includeTransient {
		query += ` WHERE transient = 0`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// Search runs an FTS5 match over titles and creators, ranked by
// relevance. A limit of zero or less uses the default.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]types.Record, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.title, r.doi, r.url, r.year, r.date, r.creators, r.extra, r.transient
		 FROM records_fts
		 JOIN records r ON r.rowid = records_fts.rowid
		 WHERE records_fts MATCH ?
		 ORDER BY records_fts.rank
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// UpdateExtra replaces the extra field of one record. Returns ErrNotFound
// when the id has no row.
func (s *Store) UpdateExtra(ctx context.Context, id, extra string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET extra = ?, updated_at = ? WHERE id = ?`,
		extra, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating record %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating record %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (types.Record, error) {
	var (
		rec          types.Record
		creatorsJSON sql.NullString
		transient    int
	)
	if err := sc.Scan(
		&rec.ID, &rec.Title, &rec.DOI, &rec.URL, &rec.Year, &rec.Date,
		&creatorsJSON, &rec.Extra, &transient,
	); err != nil {
		return types.Record{}, err
	}
	if creatorsJSON.Valid && creatorsJSON.String != "" {
		json.Unmarshal([]byte(creatorsJSON.String), &rec.Creators)
	}
	rec.Transient = transient != 0
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]types.Record, error) {
	var recs []types.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// creatorsText flattens creator names for the full-text index.
func creatorsText(creators []types.Creator) string {
	names := make([]string, 0, len(creators))
	for _, c := range creators {
		if name := c.Name(); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, " ")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
