// Package frequency provides population allele frequency lookups backed by
// DuckDB.
package frequency

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-exome/internal/genome"
	"github.com/inodb/vibe-exome/internal/model"
)

// Store holds per-source allele frequencies keyed by variant.
type Store struct {
	db *sql.DB

	prepareOnce sync.Once
	lookupPS    *sql.Stmt
	prepareErr  error
}

// Open opens or creates a DuckDB database for frequency data at the given
// path. An empty path opens an in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS frequencies (
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		rsid VARCHAR,
		source VARCHAR,
		freq DOUBLE
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	db.Exec(`CREATE INDEX IF NOT EXISTS idx_freq_lookup ON frequencies (chrom, pos, ref, alt)`)

	return &Store{db: db}, nil
}

// Load replaces the table with the rows of a (optionally gzipped) TSV file
// with a header line:
//
//	#CHROM  POS  REF  ALT  RSID  SOURCE  FREQ
//
// FREQ is the allele frequency in percent; "." leaves it empty, which marks
// a variant known to a database without a measured frequency.
func (s *Store) Load(tsvPath string) error {
	if _, err := s.db.Exec(`DELETE FROM frequencies`); err != nil {
		return fmt.Errorf("clear frequencies: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO frequencies
		SELECT regexp_replace(column0, '^chr', ''), column1, column2, column3,
			NULLIF(column4, '.'), column5, TRY_CAST(NULLIF(column6, '.') AS DOUBLE)
		FROM read_csv('%s', delim='\t', header=false, skip=1,
			columns={
				'column0': 'VARCHAR',
				'column1': 'BIGINT',
				'column2': 'VARCHAR',
				'column3': 'VARCHAR',
				'column4': 'VARCHAR',
				'column5': 'VARCHAR',
				'column6': 'VARCHAR'
			})`, tsvPath)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("loading frequency data: %w", err)
	}
	return nil
}

// Count returns the number of stored frequency rows.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM frequencies").Scan(&n); err != nil {
		return 0, fmt.Errorf("count frequency rows: %w", err)
	}
	return n, nil
}

// Lookup returns the frequency data for a variant. Unknown variants yield
// nil, false.
func (s *Store) Lookup(chrom string, pos int64, ref, alt string) (*model.FrequencyData, bool, error) {
	s.prepareOnce.Do(func() {
		s.lookupPS, s.prepareErr = s.db.Prepare(
			"SELECT rsid, source, freq FROM frequencies WHERE chrom=? AND pos=? AND ref=? AND alt=? ORDER BY source",
		)
	})
	if s.prepareErr != nil {
		return nil, false, fmt.Errorf("prepare frequency lookup: %w", s.prepareErr)
	}

	rows, err := s.lookupPS.Query(genome.NormalizeChrom(chrom), pos, ref, alt)
	if err != nil {
		return nil, false, fmt.Errorf("query frequencies: %w", err)
	}
	defer rows.Close()

	var data *model.FrequencyData
	for rows.Next() {
		var rsid, source sql.NullString
		var freq sql.NullFloat64
		if err := rows.Scan(&rsid, &source, &freq); err != nil {
			return nil, false, fmt.Errorf("scan frequency row: %w", err)
		}
		if data == nil {
			data = &model.FrequencyData{}
		}
		if rsid.Valid && data.RsID == "" {
			data.RsID = rsid.String
		}
		if freq.Valid {
			data.Frequencies = append(data.Frequencies, model.Frequency{Source: source.String, Percent: freq.Float64})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("frequency rows: %w", err)
	}
	return data, data != nil, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.lookupPS != nil {
		s.lookupPS.Close()
	}
	return s.db.Close()
}
