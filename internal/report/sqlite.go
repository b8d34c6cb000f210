// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

// SQLiteSink appends matched papers to a SQLite database, one row per paper
// per run. Query runs only write to it; Runs and Papers read it back for the
// history command.
type SQLiteSink struct {
	db *sql.DB
}

// Run is one recorded pipeline invocation.
type Run struct {
	ID        int64
	Query     string
	CreatedAt time.Time
	Papers    int
}

// OpenSQLite opens or creates the database at path and its schema.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteSink{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func (s *SQLiteSink) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			pubmed_id TEXT NOT NULL,
			title TEXT,
			publication_date TEXT,
			non_academic_authors TEXT,
			company_affiliations TEXT,
			corresponding_email TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_pubmed_id ON papers(pubmed_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save records a run for query and its papers in one transaction and returns
// the run id. Author and company lists are stored as JSON arrays.
func (s *SQLiteSink) Save(ctx context.Context, query string, papers []types.PaperRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (query, created_at) VALUES (?, ?)`,
		query, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO papers
		(run_id, position, pubmed_id, title, publication_date, non_academic_authors, company_affiliations, corresponding_email)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		authors, err := json.Marshal(p.NonAcademicAuthors)
		if err != nil {
			return 0, fmt.Errorf("encoding authors for %s: %w", p.ID, err)
		}
		companies, err := json.Marshal(p.CompanyAffiliations)
		if err != nil {
			return 0, fmt.Errorf("encoding companies for %s: %w", p.ID, err)
		}
		var email sql.NullString
		if p.CorrespondingEmail != "" {
			email = sql.NullString{String: p.CorrespondingEmail, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, i, p.ID, p.Title, p.PublicationDate,
			string(authors), string(companies), email); err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs lists recorded runs, newest first.
func (s *SQLiteSink) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT r.id, r.query, r.created_at, COUNT(p.run_id)
		FROM runs r LEFT JOIN papers p ON p.run_id = r.id
		GROUP BY r.id ORDER BY r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Query, &created, &r.Papers); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Papers returns the papers saved for runID in their original order.
func (s *SQLiteSink) Papers(ctx context.Context, runID int64) ([]types.PaperRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pubmed_id, title, publication_date,
		non_academic_authors, company_affiliations, corresponding_email
		FROM papers WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.PaperRecord
	for rows.Next() {
		var p types.PaperRecord
		var authors, companies string
		var email sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &p.PublicationDate, &authors, &companies, &email); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if err := json.Unmarshal([]byte(authors), &p.NonAcademicAuthors); err != nil {
			return nil, fmt.Errorf("decoding authors for %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(companies), &p.CompanyAffiliations); err != nil {
			return nil, fmt.Errorf("decoding companies for %s: %w", p.ID, err)
		}
		p.CorrespondingEmail = email.String
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
