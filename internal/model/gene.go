package model

import "sort"

// GeneIdentifier is the stable identity of a gene.
type GeneIdentifier struct {
	Symbol string // e.g. FGFR2
	GeneID string // e.g. ENSG00000066468 or an Entrez id
}

// Less orders identifiers by symbol, then gene id.
func (id GeneIdentifier) Less(other GeneIdentifier) bool {
	if id.Symbol != other.Symbol {
		return id.Symbol < other.Symbol
	}
	return id.GeneID < other.GeneID
}

// PriorityType identifies a prioritiser.
type PriorityType string

// Prioritiser types.
const (
	PriorityPhenotype PriorityType = "PHENOTYPE"
	PriorityGeneList  PriorityType = "GENE_LIST"
)

// PriorityResult is a prioritiser's verdict on a gene.
type PriorityResult struct {
	Type        PriorityType
	Score       float64
	Description string
}

// Gene aggregates the variants attached to one gene together with the
// results of gene-level steps. The pipeline writes to a Gene from a single
// goroutine at a time; see analysis.Runner.
type Gene struct {
	Identifier GeneIdentifier

	variants        []*Variant
	priorityResults map[PriorityType]PriorityResult
	filterResults   FilterResults
	compatible      map[ModeOfInheritance]bool
	scores          []GeneScore
}

// NewGene creates a gene with no variants.
func NewGene(symbol, geneID string) *Gene {
	return &Gene{
		Identifier:      GeneIdentifier{Symbol: symbol, GeneID: geneID},
		priorityResults: make(map[PriorityType]PriorityResult),
		compatible:      make(map[ModeOfInheritance]bool),
	}
}

// Symbol returns the gene symbol.
func (g *Gene) Symbol() string { return g.Identifier.Symbol }

// AddVariant appends a variant.
func (g *Gene) AddVariant(v *Variant) {
	g.variants = append(g.variants, v)
}

// Variants returns the attached variants in attachment order.
func (g *Gene) Variants() []*Variant { return g.variants }

// HasVariants reports whether any variant is attached.
func (g *Gene) HasVariants() bool { return len(g.variants) > 0 }

// PassedVariants returns the attached variants that passed all their filters.
func (g *Gene) PassedVariants() []*Variant {
	var passed []*Variant
	for _, v := range g.variants {
		if v.PassedFilters() {
			passed = append(passed, v)
		}
	}
	return passed
}

// AddFilterResult records a gene-level filter outcome. Gene and variant
// filter results are kept apart.
func (g *Gene) AddFilterResult(r FilterResult) {
	g.filterResults.Add(r)
}

// FilterResults returns the gene-level filter outcomes in run order.
func (g *Gene) FilterResults() []FilterResult {
	return g.filterResults.All()
}

// PassedFilters reports whether every gene-level filter passed and at least
// one attached variant passed its own filters.
func (g *Gene) PassedFilters() bool {
	return g.filterResults.Passed() && len(g.PassedVariants()) > 0
}

// AddPriorityResult records a prioritiser's result, replacing any earlier one
// of the same type.
func (g *Gene) AddPriorityResult(r PriorityResult) {
	g.priorityResults[r.Type] = r
}

// PriorityResult returns the result for a prioritiser type.
func (g *Gene) PriorityResult(t PriorityType) (PriorityResult, bool) {
	r, ok := g.priorityResults[t]
	return r, ok
}

// PriorityResults returns all prioritiser results ordered by type.
func (g *Gene) PriorityResults() []PriorityResult {
	results := make([]PriorityResult, 0, len(g.priorityResults))
	for _, r := range g.priorityResults {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Type < results[j].Type })
	return results
}

// PriorityScore is the product of all prioritiser scores, 1 if none ran.
func (g *Gene) PriorityScore() float64 {
	score := 1.0
	for _, r := range g.priorityResults {
		score *= r.Score
	}
	return score
}

// SetCompatibleWith marks the gene as compatible with a mode of inheritance.
func (g *Gene) SetCompatibleWith(mode ModeOfInheritance) {
	g.compatible[mode] = true
}

// ClearCompatibility forgets every mode set by SetCompatibleWith.
func (g *Gene) ClearCompatibility() {
	clear(g.compatible)
}

// IsCompatibleWith reports whether the gene fits the mode.
func (g *Gene) IsCompatibleWith(mode ModeOfInheritance) bool {
	return g.compatible[mode]
}

// CompatibleModes returns the compatible modes in ascending order.
func (g *Gene) CompatibleModes() []ModeOfInheritance {
	modes := make([]ModeOfInheritance, 0, len(g.compatible))
	for m, ok := range g.compatible {
		if ok {
			modes = append(modes, m)
		}
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// AddGeneScore records a score, replacing an earlier score for the same mode.
func (g *Gene) AddGeneScore(s GeneScore) {
	for i := range g.scores {
		if g.scores[i].Mode == s.Mode {
			g.scores[i] = s
			return
		}
	}
	g.scores = append(g.scores, s)
}

// GeneScores returns the scores in the order they were added.
func (g *Gene) GeneScores() []GeneScore {
	return append([]GeneScore(nil), g.scores...)
}

// GeneScoreForMode returns the score under one mode.
func (g *Gene) GeneScoreForMode(mode ModeOfInheritance) (GeneScore, bool) {
	for _, s := range g.scores {
		if s.Mode == mode {
			return s, true
		}
	}
	return GeneScore{}, false
}

// TopGeneScore returns the highest-scoring mode's score; the earlier mode wins ties.
func (g *Gene) TopGeneScore() (GeneScore, bool) {
	if len(g.scores) == 0 {
		return GeneScore{}, false
	}
	top := g.scores[0]
	for _, s := range g.scores[1:] {
		if s.CombinedScore > top.CombinedScore {
			top = s
		}
	}
	return top, true
}

// CombinedScore returns the top combined score, 0 if unscored.
func (g *Gene) CombinedScore() float64 {
	top, _ := g.TopGeneScore()
	return top.CombinedScore
}
