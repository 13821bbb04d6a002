// Package output writes analysis results as tab-delimited text.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-exome/internal/model"
)

// GeneTSVWriter writes one row per gene and mode of inheritance, in the
// order the genes are given.
type GeneTSVWriter struct {
	w       *bufio.Writer
	columns []string
	rank    int
}

// NewGeneTSVWriter creates a new gene writer.
func NewGeneTSVWriter(w io.Writer) *GeneTSVWriter {
	return &GeneTSVWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#RANK",
			"GENE_SYMBOL",
			"GENE_ID",
			"MOI",
			"COMBINED_SCORE",
			"PRIORITY_SCORE",
			"VARIANT_SCORE",
			"PASSED_FILTERS",
			"FAILED_FILTERS",
			"CONTRIBUTING_VARIANTS",
			"PRIORITY_DESCRIPTIONS",
		},
	}
}

// WriteHeader writes the header line.
func (tw *GeneTSVWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes the rows of one gene. Unscored genes are skipped; ranks count
// written genes.
func (tw *GeneTSVWriter) Write(g *model.Gene) error {
	scores := g.GeneScores()
	if len(scores) == 0 {
		return nil
	}
	tw.rank++

	var failed []string
	for _, r := range g.FilterResults() {
		if !r.Passed() {
			failed = append(failed, string(r.Type))
		}
	}

	var descriptions []string
	for _, r := range g.PriorityResults() {
		if r.Description != "" {
			descriptions = append(descriptions, string(r.Type)+"="+r.Description)
		}
	}

	for _, s := range scores {
		var contributing []string
		for _, v := range s.ContributingVariants() {
			contributing = append(contributing, v.Key())
		}

		values := []string{
			strconv.Itoa(tw.rank),
			g.Symbol(),
			orDash(g.Identifier.GeneID),
			s.Mode.Abbreviation(),
			formatScore(s.CombinedScore),
			formatScore(s.PriorityScore),
			formatScore(s.VariantScore),
			yesNo(g.PassedFilters()),
			joinOrDash(failed, ","),
			joinOrDash(contributing, ","),
			joinOrDash(descriptions, ";"),
		}
		if _, err := tw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll writes the header and every gene, then flushes.
func (tw *GeneTSVWriter) WriteAll(genes []*model.Gene) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, g := range genes {
		if err := tw.Write(g); err != nil {
			return fmt.Errorf("write gene %s: %w", g.Symbol(), err)
		}
	}
	return tw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (tw *GeneTSVWriter) Flush() error {
	return tw.w.Flush()
}

// VariantTSVWriter writes one row per variant with its scores and filter
// outcome.
type VariantTSVWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewVariantTSVWriter creates a new variant writer.
func NewVariantTSVWriter(w io.Writer) *VariantTSVWriter {
	return &VariantTSVWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#CHROM",
			"POS",
			"REF",
			"ALT",
			"ID",
			"QUAL",
			"GENE_SYMBOL",
			"GENE_ID",
			"EFFECT",
			"IMPACT",
			"FREQUENCY_SCORE",
			"PATHOGENICITY_SCORE",
			"VARIANT_SCORE",
			"FILTER",
		},
	}
}

// WriteHeader writes the header line.
func (tw *VariantTSVWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single variant. FILTER is PASS, the failed filter types, or
// "." when no filter ran.
func (tw *VariantTSVWriter) Write(v *model.Variant) error {
	filterStatus := "."
	if len(v.FilterResults()) > 0 {
		filterStatus = "PASS"
		if failed := v.FailedFilters(); len(failed) > 0 {
			names := make([]string, len(failed))
			for i, f := range failed {
				names[i] = string(f)
			}
			filterStatus = strings.Join(names, ";")
		}
	}

	values := []string{
		v.Chrom,
		strconv.FormatInt(v.Pos, 10),
		v.Ref,
		v.Alt,
		orDash(v.ID),
		strconv.FormatFloat(v.Qual, 'f', -1, 64),
		orDash(v.GeneSymbol),
		orDash(v.GeneID),
		string(v.Effect),
		v.Effect.Impact(),
		formatScore(v.FrequencyScore()),
		formatScore(v.PathogenicityScore()),
		formatScore(v.Score()),
		filterStatus,
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *VariantTSVWriter) Flush() error {
	return tw.w.Flush()
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinOrDash(parts []string, sep string) string {
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, sep)
}
