// Package score combines variant and priority evidence into per-gene scores.
package score

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inodb/vibe-exome/internal/model"
)

// Mode selects the scoring policy.
type Mode string

// Scoring modes.
const (
	ModeRaw       Mode = "RAW"
	ModeRankBased Mode = "RANK_BASED"
)

// ParseMode parses a scoring mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToUpper(strings.TrimSpace(s))); m {
	case ModeRaw, ModeRankBased:
		return m, nil
	case "":
		return ModeRaw, nil
	default:
		return "", fmt.Errorf("unknown scoring mode %q", s)
	}
}

// Weights balances the variant and priority axes.
type Weights struct {
	Variant  float64 `mapstructure:"variant" yaml:"variant"`
	Priority float64 `mapstructure:"priority" yaml:"priority"`
}

// DefaultWeights weighs both axes equally.
func DefaultWeights() Weights {
	return Weights{Variant: 1, Priority: 1}
}

// Validate rejects negative weights and an all-zero pair.
func (w Weights) Validate() error {
	if w.Variant < 0 || w.Priority < 0 {
		return fmt.Errorf("scoring weights must not be negative: variant=%g priority=%g", w.Variant, w.Priority)
	}
	if w.Variant+w.Priority == 0 {
		return fmt.Errorf("at least one scoring weight must be positive")
	}
	return nil
}

func (w Weights) combine(variant, priority float64) float64 {
	return (w.Variant*variant + w.Priority*priority) / (w.Variant + w.Priority)
}

// Scorer records one GeneScore per mode on each gene with variants.
type Scorer interface {
	ScoreGenes(genes []*model.Gene, modes []model.ModeOfInheritance)
}

// New returns the scorer for a mode.
func New(mode Mode, w Weights) (Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	switch mode {
	case ModeRaw, "":
		return &RawScorer{Weights: w}, nil
	case ModeRankBased:
		return &RankBasedScorer{Weights: w}, nil
	default:
		return nil, fmt.Errorf("unknown scoring mode %q", mode)
	}
}

// evidence is a gene's score inputs under one mode.
type evidence struct {
	gene         *model.Gene
	mode         model.ModeOfInheritance
	variantScore float64
	priority     float64
	contributing []*model.Variant
	passed       bool
}

// collect gathers per-mode evidence for every gene with variants.
func collect(genes []*model.Gene, modes []model.ModeOfInheritance) []evidence {
	if len(modes) == 0 {
		modes = []model.ModeOfInheritance{model.ModeAny}
	}
	var out []evidence
	for _, g := range genes {
		if !g.HasVariants() {
			continue
		}
		for _, mode := range modes {
			e := evidence{gene: g, mode: mode, priority: g.PriorityScore(), passed: g.PassedFilters()}
			if e.passed {
				e.contributing = ContributingVariants(g, mode)
				e.variantScore = VariantScore(e.contributing, mode)
			}
			out = append(out, e)
		}
	}
	return out
}

// ContributingVariants returns the gene's filter-passing variants that count
// towards its score under mode. Under ModeAny every passing variant counts;
// other modes need the flag set by the inheritance analysis.
func ContributingVariants(g *model.Gene, mode model.ModeOfInheritance) []*model.Variant {
	var out []*model.Variant
	for _, v := range g.PassedVariants() {
		if mode == model.ModeAny || v.ContributesToGeneScoreUnderMode(mode) {
			out = append(out, v)
		}
	}
	return out
}

// VariantScore is the best contributing variant score; recessive modes
// average the two best, counting a lone variant twice.
func VariantScore(contributing []*model.Variant, mode model.ModeOfInheritance) float64 {
	if len(contributing) == 0 {
		return 0
	}
	scores := make([]float64, len(contributing))
	for i, v := range contributing {
		scores[i] = v.Score()
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	if mode == model.ModeAutosomalRecessive || mode == model.ModeXRecessive {
		if len(scores) == 1 {
			return scores[0]
		}
		return (scores[0] + scores[1]) / 2
	}
	return scores[0]
}

// Sort orders genes by combined score, highest first, breaking ties by gene
// identifier.
func Sort(genes []*model.Gene) {
	sort.SliceStable(genes, func(i, j int) bool {
		si, sj := genes[i].CombinedScore(), genes[j].CombinedScore()
		if si != sj {
			return si > sj
		}
		return genes[i].Identifier.Less(genes[j].Identifier)
	})
}
