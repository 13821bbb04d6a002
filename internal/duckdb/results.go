package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-exome/internal/analysis"
	"github.com/inodb/vibe-exome/internal/model"
)

// RunRow is one stored analysis run.
type RunRow struct {
	RunID       string
	CreatedAt   time.Time
	VCF         string
	Proband     string
	ScoringMode string
	Modes       []string
	Records     int64
	Variants    int64
	Genes       int64
}

// GeneScoreRow is one gene's score under one mode.
type GeneScoreRow struct {
	Rank          int
	GeneSymbol    string
	GeneID        string
	Mode          string
	CombinedScore float64
	VariantScore  float64
	PriorityScore float64
	Passed        bool
}

// VariantRow is one stored variant with its scores and filter outcome.
type VariantRow struct {
	Chrom              string
	Pos                int64
	Ref                string
	Alt                string
	GeneSymbol         string
	GeneID             string
	Effect             string
	Qual               float64
	FrequencyScore     float64
	PathogenicityScore float64
	Score              float64
	Passed             bool
	FailedFilters      []string
	ContributingModes  []string
}

// variantKey is the composite key for deduplicating variants before writing.
type variantKey struct {
	chrom, ref, alt, gene string
	pos                   int64
}

// WriteResults stores a finished run: one runs row, one gene_scores row per
// gene and mode, and one variant_results row per attached variant. When a
// write fails after the runs row is in, every row of the run is removed.
func (s *Store) WriteResults(ctx context.Context, res *analysis.Results) error {
	runID := res.RunID.String()
	modes := make([]string, len(res.Modes))
	for i, m := range res.Modes {
		modes[i] = m.String()
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), res.VCFPath, res.Proband, string(res.ScoringMode),
		strings.Join(modes, ","), int64(res.RecordsRead), int64(len(res.Variants)), int64(len(res.Genes)),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}

	if err := s.writeRunRows(ctx, runID, res); err != nil {
		if derr := s.DeleteRun(runID); derr != nil {
			return errors.Join(err, derr)
		}
		return err
	}
	return nil
}

func (s *Store) writeRunRows(ctx context.Context, runID string, res *analysis.Results) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	contributing := make(map[*model.Variant][]string)
	err = s.appendRows(conn, "gene_scores", func(a *goduckdb.Appender) error {
		for i, g := range res.Genes {
			for _, gs := range g.GeneScores() {
				if err := a.AppendRow(
					runID, int32(i+1), g.Symbol(), g.Identifier.GeneID, gs.Mode.String(),
					gs.CombinedScore, gs.VariantScore, gs.PriorityScore, g.PassedFilters(),
				); err != nil {
					return fmt.Errorf("append gene score: %w", err)
				}
				for _, v := range gs.ContributingVariants() {
					contributing[v] = append(contributing[v], gs.Mode.String())
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	seen := make(map[variantKey]bool, len(res.Variants))
	return s.appendRows(conn, "variant_results", func(a *goduckdb.Appender) error {
		for _, v := range res.Variants {
			k := variantKey{v.Chrom, v.Ref, v.Alt, v.GeneSymbol, v.Pos}
			if seen[k] {
				continue
			}
			seen[k] = true

			failed := make([]string, 0, len(v.FailedFilters()))
			for _, f := range v.FailedFilters() {
				failed = append(failed, string(f))
			}
			if err := a.AppendRow(
				runID, v.Chrom, v.Pos, v.Ref, v.Alt, v.GeneSymbol, v.GeneID, string(v.Effect), v.Qual,
				v.FrequencyScore(), v.PathogenicityScore(), v.Score(), v.PassedFilters(),
				strings.Join(failed, ","), strings.Join(contributing[v], ","),
			); err != nil {
				return fmt.Errorf("append variant result: %w", err)
			}
		}
		return nil
	})
}

// appendRows opens an Appender on table, runs fill and flushes.
func (s *Store) appendRows(conn *sql.Conn, table string, fill func(*goduckdb.Appender) error) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create %s appender: %w", table, err)
	}
	defer appender.Close()

	if err := fill(appender); err != nil {
		return err
	}
	if err := appender.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", table, err)
	}
	return nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs() ([]RunRow, error) {
	rows, err := s.db.Query(`SELECT
		run_id, created_at, vcf, proband, scoring_mode, modes, records, variants, genes
		FROM runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRow
	for rows.Next() {
		var r RunRow
		var modes string
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.VCF, &r.Proband, &r.ScoringMode,
			&modes, &r.Records, &r.Variants, &r.Genes); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Modes = splitList(modes)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// TopGenes returns the best-ranked genes of a run, all modes of each gene.
// A limit of 0 returns every gene.
func (s *Store) TopGenes(runID string, limit int) ([]GeneScoreRow, error) {
	query := `SELECT
		gene_rank, gene_symbol, gene_id, mode, combined_score, variant_score, priority_score, passed
		FROM gene_scores
		WHERE run_id=?`
	args := []any{runID}
	if limit > 0 {
		query += ` AND gene_rank<=?`
		args = append(args, limit)
	}
	query += ` ORDER BY gene_rank, mode`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query gene scores: %w", err)
	}
	defer rows.Close()

	var out []GeneScoreRow
	for rows.Next() {
		var r GeneScoreRow
		if err := rows.Scan(&r.Rank, &r.GeneSymbol, &r.GeneID, &r.Mode,
			&r.CombinedScore, &r.VariantScore, &r.PriorityScore, &r.Passed); err != nil {
			return nil, fmt.Errorf("scan gene score: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gene scores: %w", err)
	}
	return out, nil
}

// VariantsForGene returns a run's variants in one gene, by position.
func (s *Store) VariantsForGene(runID, geneSymbol string) ([]VariantRow, error) {
	rows, err := s.db.Query(`SELECT
		chrom, pos, ref, alt, gene_symbol, gene_id, effect, qual,
		frequency_score, pathogenicity_score, score, passed, failed_filters, contributing_modes
		FROM variant_results
		WHERE run_id=? AND gene_symbol=?
		ORDER BY pos, alt`, runID, geneSymbol)
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	var out []VariantRow
	for rows.Next() {
		var r VariantRow
		var failed, contributing string
		if err := rows.Scan(&r.Chrom, &r.Pos, &r.Ref, &r.Alt, &r.GeneSymbol, &r.GeneID, &r.Effect, &r.Qual,
			&r.FrequencyScore, &r.PathogenicityScore, &r.Score, &r.Passed, &failed, &contributing); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		r.FailedFilters = splitList(failed)
		r.ContributingModes = splitList(contributing)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variants: %w", err)
	}
	return out, nil
}

// DeleteRun removes every row of a run.
func (s *Store) DeleteRun(runID string) error {
	for _, table := range []string{"variant_results", "gene_scores", "runs"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE run_id=?", runID); err != nil {
			return fmt.Errorf("delete run %s from %s: %w", runID, table, err)
		}
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
