// Package duckdb persists analysis results in DuckDB so runs can be queried
// after the fact. Each run is keyed by its run identifier; tables are
// append-only.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for analysis results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create results directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file, "" when in memory.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id VARCHAR PRIMARY KEY,
			created_at TIMESTAMP,
			vcf VARCHAR,
			proband VARCHAR,
			scoring_mode VARCHAR,
			modes VARCHAR,
			records BIGINT,
			variants BIGINT,
			genes BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS gene_scores (
			run_id VARCHAR,
			gene_rank INTEGER,
			gene_symbol VARCHAR,
			gene_id VARCHAR,
			mode VARCHAR,
			combined_score DOUBLE,
			variant_score DOUBLE,
			priority_score DOUBLE,
			passed BOOLEAN,
			PRIMARY KEY (run_id, gene_symbol, mode)
		)`,
		`CREATE TABLE IF NOT EXISTS variant_results (
			run_id VARCHAR,
			chrom VARCHAR,
			pos BIGINT,
			ref VARCHAR,
			alt VARCHAR,
			gene_symbol VARCHAR,
			gene_id VARCHAR,
			effect VARCHAR,
			qual DOUBLE,
			frequency_score DOUBLE,
			pathogenicity_score DOUBLE,
			score DOUBLE,
			passed BOOLEAN,
			failed_filters VARCHAR,
			contributing_modes VARCHAR,
			PRIMARY KEY (run_id, chrom, pos, ref, alt, gene_symbol)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
