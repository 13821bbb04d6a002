// Package alphamissense provides AlphaMissense pathogenicity score lookups
// backed by DuckDB. AlphaMissense data is loaded from the official TSV files
// (Cheng et al., Science 2023, CC BY 4.0).
package alphamissense

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-exome/internal/genome"
)

// SourceName labels scores from this store.
const SourceName = "alphamissense"

// amEntry is a compact in-memory representation of an AlphaMissense variant.
type amEntry struct {
	pos    int64
	refAlt uint8 // encodeBase(ref)<<2 | encodeBase(alt)
	score  float32
	class  uint8 // 0=likely_benign, 1=ambiguous, 2=likely_pathogenic
}

func encodeBase(b byte) uint8 {
	switch b {
	case 'A', 'a':
		return 0
	case 'C', 'c':
		return 1
	case 'G', 'g':
		return 2
	case 'T', 't':
		return 3
	}
	return 0
}

func encodeClass(class string) uint8 {
	switch class {
	case "likely_benign":
		return 0
	case "ambiguous":
		return 1
	case "likely_pathogenic":
		return 2
	}
	return 1
}

var classNames = [3]string{"likely_benign", "ambiguous", "likely_pathogenic"}

// Store provides AlphaMissense score lookups backed by DuckDB. Chromosomes
// are stored without the "chr" prefix.
type Store struct {
	db *sql.DB

	prepareOnce sync.Once
	lookupPS    *sql.Stmt
	prepareErr  error

	// In-memory cache: sorted slices per chromosome for O(log n) lookup.
	memCache map[string][]amEntry
}

// Open opens or creates a DuckDB database for AlphaMissense data at the given
// path. An empty path opens an in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS alphamissense (
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		am_pathogenicity FLOAT,
		am_class VARCHAR
	)`); err != nil {
		return err
	}
	// Index for fast point lookups
	s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_am_lookup ON alphamissense (chrom, pos, ref, alt)`)
	return nil
}

// Loaded returns true if the AlphaMissense table has data.
func (s *Store) Loaded() bool {
	n, err := s.Count()
	return err == nil && n > 0
}

// Count returns the number of rows in the AlphaMissense table.
func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM alphamissense").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count alphamissense rows: %w", err)
	}
	return count, nil
}

// Load bulk-loads AlphaMissense data from a (optionally gzipped) TSV file
// using DuckDB's read_csv, replacing any existing rows. The file has 3
// comment lines, then a header:
//
//	#CHROM  POS  REF  ALT  genome  uniprot_id  transcript_id  protein_variant  am_pathogenicity  am_class
func (s *Store) Load(tsvPath string) error {
	if _, err := s.db.Exec(`DELETE FROM alphamissense`); err != nil {
		return fmt.Errorf("clear alphamissense: %w", err)
	}

	// The file has one row per transcript; scores per (chrom,pos,ref,alt)
	// are identical, so duplicates are harmless.
	query := fmt.Sprintf(`INSERT INTO alphamissense
		SELECT regexp_replace(column0, '^chr', ''), column1, column2, column3,
			CAST(column8 AS FLOAT), column9
		FROM read_csv('%s', delim='\t', header=false, skip=4,
			columns={
				'column0': 'VARCHAR',
				'column1': 'BIGINT',
				'column2': 'VARCHAR',
				'column3': 'VARCHAR',
				'column4': 'VARCHAR',
				'column5': 'VARCHAR',
				'column6': 'VARCHAR',
				'column7': 'VARCHAR',
				'column8': 'VARCHAR',
				'column9': 'VARCHAR'
			})`, tsvPath)

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("loading AlphaMissense data: %w", err)
	}
	return nil
}

// Result holds a single AlphaMissense lookup result.
type Result struct {
	Score float64
	Class string
}

// PreloadToMemory loads all AlphaMissense data from DuckDB into sorted in-memory
// slices for O(log n) lookup without database overhead.
func (s *Store) PreloadToMemory() error {
	rows, err := s.db.Query("SELECT DISTINCT chrom, pos, ref, alt, am_pathogenicity, am_class FROM alphamissense ORDER BY chrom, pos")
	if err != nil {
		return fmt.Errorf("query alphamissense for preload: %w", err)
	}
	defer rows.Close()

	cache := make(map[string][]amEntry)
	for rows.Next() {
		var chrom, ref, alt, class string
		var pos int64
		var score float32
		if err := rows.Scan(&chrom, &pos, &ref, &alt, &score, &class); err != nil {
			return fmt.Errorf("scan preload row: %w", err)
		}
		if len(ref) != 1 || len(alt) != 1 {
			continue // skip non-SNV entries
		}
		cache[chrom] = append(cache[chrom], amEntry{
			pos:    pos,
			refAlt: encodeBase(ref[0])<<2 | encodeBase(alt[0]),
			score:  score,
			class:  encodeClass(class),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("preload rows: %w", err)
	}

	s.memCache = cache
	return nil
}

// MemCacheSize returns the number of variants in the in-memory cache, or 0 if not loaded.
func (s *Store) MemCacheSize() int64 {
	var n int64
	for _, entries := range s.memCache {
		n += int64(len(entries))
	}
	return n
}

// Lookup queries the AlphaMissense score for a single-nucleotide variant.
// Uses the in-memory cache if available, otherwise falls back to DuckDB.
// Query errors are reported as misses.
func (s *Store) Lookup(chrom string, pos int64, ref, alt string) (Result, bool) {
	if len(ref) != 1 || len(alt) != 1 {
		return Result{}, false
	}
	chrom = genome.NormalizeChrom(chrom)

	if s.memCache != nil {
		return s.lookupMemory(chrom, pos, ref, alt)
	}

	s.prepareOnce.Do(func() {
		s.lookupPS, s.prepareErr = s.db.Prepare(
			"SELECT am_pathogenicity, am_class FROM alphamissense WHERE chrom=? AND pos=? AND ref=? AND alt=? LIMIT 1",
		)
	})
	if s.prepareErr != nil {
		return Result{}, false
	}

	var r Result
	var score float32
	if err := s.lookupPS.QueryRow(chrom, pos, ref, alt).Scan(&score, &r.Class); err != nil {
		return Result{}, false
	}
	r.Score = float64(score)
	return r, true
}

func (s *Store) lookupMemory(chrom string, pos int64, ref, alt string) (Result, bool) {
	entries := s.memCache[chrom]
	target := encodeBase(ref[0])<<2 | encodeBase(alt[0])

	i := sort.Search(len(entries), func(i int) bool { return entries[i].pos >= pos })
	for ; i < len(entries) && entries[i].pos == pos; i++ {
		if entries[i].refAlt == target {
			return Result{Score: float64(entries[i].score), Class: classNames[entries[i].class]}, true
		}
	}
	return Result{}, false
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.lookupPS != nil {
		s.lookupPS.Close()
	}
	return s.db.Close()
}
