package model

import (
	"strconv"

	"github.com/inodb/vibe-exome/internal/genome"
)

// Variant is a single allele call together with the annotation state the
// analysis accumulates on it. Coordinates never change after construction;
// everything else is written by successive pipeline steps from a single
// goroutine.
type Variant struct {
	Chrom    string  // Chromosome name as read (e.g. "chr12")
	ChromNum int     // Chromosome number, see genome.ChromosomeNumber
	Pos      int64   // 1-based position
	Ref      string  // Reference allele
	Alt      string  // Alternate allele (one per Variant)
	ID       string  // VCF ID column, "." when absent
	RsID     string  // first dbSNP identifier of the ID column, "" when none
	Qual     float64 // QUAL column, 0 when absent

	// Info holds the INFO fields of the source record, shared between the
	// alleles of a multi-allelic record.
	Info map[string]string

	GeneSymbol string
	GeneID     string
	Effect     VariantEffect

	// Genotypes holds the call for each sample, keyed by VCF sample name.
	Genotypes map[string]Genotype

	Frequency     *FrequencyData     // nil until fetched
	Pathogenicity *PathogenicityData // nil until fetched

	filterResults FilterResults
	contributes   map[ModeOfInheritance]bool
}

// NewVariant creates an unannotated variant.
func NewVariant(chrom string, pos int64, ref, alt string) *Variant {
	return &Variant{
		Chrom:     chrom,
		ChromNum:  genome.ChromosomeNumber(chrom),
		Pos:       pos,
		Ref:       ref,
		Alt:       alt,
		ID:        ".",
		Effect:    EffectSequenceVariant,
		Genotypes: make(map[string]Genotype),
	}
}

// Chromosome implements genome.VariantCoordinates.
func (v *Variant) Chromosome() int { return v.ChromNum }

// Position implements genome.VariantCoordinates.
func (v *Variant) Position() int64 { return v.Pos }

// Key returns chrom:pos:ref>alt.
func (v *Variant) Key() string {
	return v.Chrom + ":" + strconv.FormatInt(v.Pos, 10) + ":" + v.Ref + ">" + v.Alt
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// Genotype returns the call for a sample, GenotypeNoCall if absent.
func (v *Variant) Genotype(sample string) Genotype {
	return v.Genotypes[sample]
}

// AddFilterResult records a filter outcome.
func (v *Variant) AddFilterResult(r FilterResult) {
	v.filterResults.Add(r)
}

// FilterResults returns the recorded outcomes in run order.
func (v *Variant) FilterResults() []FilterResult {
	return v.filterResults.All()
}

// FilterResult returns the outcome of a single filter.
func (v *Variant) FilterResult(t FilterType) (FilterResult, bool) {
	return v.filterResults.Get(t)
}

// PassedFilters reports whether no filter run on the variant failed.
func (v *Variant) PassedFilters() bool {
	return v.filterResults.Passed()
}

// FailedFilters returns the filters the variant failed.
func (v *Variant) FailedFilters() []FilterType {
	return v.filterResults.Failed()
}

// SetContributesToGeneScoreUnderMode flags the variant as counted towards its
// gene's score under mode.
func (v *Variant) SetContributesToGeneScoreUnderMode(mode ModeOfInheritance) {
	if v.contributes == nil {
		v.contributes = make(map[ModeOfInheritance]bool)
	}
	v.contributes[mode] = true
}

// ClearContributions drops every mode set by
// SetContributesToGeneScoreUnderMode.
func (v *Variant) ClearContributions() {
	clear(v.contributes)
}

// ContributesToGeneScoreUnderMode reports the flag set above.
func (v *Variant) ContributesToGeneScoreUnderMode(mode ModeOfInheritance) bool {
	return v.contributes[mode]
}

// FrequencyScore is 1 for unseen variants, falling to 0 for common ones.
func (v *Variant) FrequencyScore() float64 {
	return v.Frequency.Score()
}

// PathogenicityScore is the higher of the best predictor score and the
// effect's default score.
func (v *Variant) PathogenicityScore() float64 {
	return max(v.Pathogenicity.MostPathogenicScore(), v.Effect.DefaultPathogenicityScore())
}

// Score combines frequency and pathogenicity into the variant's score.
func (v *Variant) Score() float64 {
	return v.FrequencyScore() * v.PathogenicityScore()
}
