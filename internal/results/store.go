// Package results records benchmark runs in a SQLite database. Only the
// CLI layer writes here; the engine itself keeps no on-disk state.
package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one finished run.
type Record struct {
	RunID      string
	Problem    string
	Generator  string
	Algorithm  string
	Status     string
	PlanLength int
	PlanCost   float64
	Expanded   uint64
	Generated  uint64
	WallMillis int64
	CreatedAt  time.Time
}

// Store persists run records.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open initializes the database at the given path, creating the schema
// on first use.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		problem TEXT NOT NULL,
		generator TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		status TEXT NOT NULL,
		plan_length INTEGER,
		plan_cost REAL,
		expanded INTEGER,
		generated INTEGER,
		wall_ms INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_problem ON runs(problem);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Insert stores one record.
func (s *Store) Insert(r Record) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (run_id, problem, generator, algorithm, status, plan_length, plan_cost, expanded, generated, wall_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Problem, r.Generator, r.Algorithm, r.Status,
		r.PlanLength, r.PlanCost, r.Expanded, r.Generated, r.WallMillis)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// ByProblem returns the records for one problem, newest first.
func (s *Store) ByProblem(problem string) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT run_id, problem, generator, algorithm, status, plan_length, plan_cost, expanded, generated, wall_ms, created_at
		FROM runs WHERE problem = ? ORDER BY id DESC`, problem)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.RunID, &r.Problem, &r.Generator, &r.Algorithm, &r.Status,
			&r.PlanLength, &r.PlanCost, &r.Expanded, &r.Generated, &r.WallMillis, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
