package filter

import (
	"github.com/inodb/vibe-exome/internal/model"
)

// InheritanceFilter keeps genes compatible with at least one of Modes.
// ModeAny, or no modes at all, keeps every gene.
type InheritanceFilter struct {
	Modes []model.ModeOfInheritance
}

// Type implements GeneFilter.
func (f *InheritanceFilter) Type() model.FilterType { return model.FilterInheritance }

// DependsOnInheritanceModes implements GeneFilter.
func (f *InheritanceFilter) DependsOnInheritanceModes() bool { return true }

// RunFilter implements GeneFilter.
func (f *InheritanceFilter) RunFilter(g *model.Gene) model.FilterResult {
	if len(f.Modes) == 0 {
		return model.Pass(f.Type(), 1)
	}
	for _, m := range f.Modes {
		if m == model.ModeAny || g.IsCompatibleWith(m) {
			return model.Pass(f.Type(), 1)
		}
	}
	return model.Fail(f.Type(), 0)
}

// PriorityScoreFilter keeps genes whose result from Prioritiser scores at
// least MinScore. Genes the prioritiser never scored fail.
type PriorityScoreFilter struct {
	Prioritiser model.PriorityType
	MinScore    float64
}

// Type implements GeneFilter.
func (f *PriorityScoreFilter) Type() model.FilterType { return model.FilterPriorityScore }

// DependsOnInheritanceModes implements GeneFilter.
func (f *PriorityScoreFilter) DependsOnInheritanceModes() bool { return false }

// RunFilter implements GeneFilter.
func (f *PriorityScoreFilter) RunFilter(g *model.Gene) model.FilterResult {
	r, ok := g.PriorityResult(f.Prioritiser)
	if !ok {
		return model.Fail(f.Type(), 0)
	}
	return passOrFail(f.Type(), r.Score >= f.MinScore, r.Score)
}

// GeneSymbolFilter keeps genes in a fixed symbol set.
type GeneSymbolFilter struct {
	Symbols map[string]bool
}

// NewGeneSymbolFilter creates a filter keeping the given symbols.
func NewGeneSymbolFilter(symbols ...string) *GeneSymbolFilter {
	f := &GeneSymbolFilter{Symbols: make(map[string]bool, len(symbols))}
	for _, s := range symbols {
		f.Symbols[s] = true
	}
	return f
}

// Type implements GeneFilter.
func (f *GeneSymbolFilter) Type() model.FilterType { return model.FilterGeneSymbol }

// DependsOnInheritanceModes implements GeneFilter.
func (f *GeneSymbolFilter) DependsOnInheritanceModes() bool { return false }

// RunFilter implements GeneFilter.
func (f *GeneSymbolFilter) RunFilter(g *model.Gene) model.FilterResult {
	pass := f.Symbols[g.Symbol()]
	return passOrFail(f.Type(), pass, boolScore(pass))
}
