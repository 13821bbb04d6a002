package filter

import (
	"github.com/inodb/vibe-exome/internal/genome"
	"github.com/inodb/vibe-exome/internal/model"
)

// QualityFilter keeps variants with a QUAL of at least MinQuality.
type QualityFilter struct {
	MinQuality float64
}

// Type implements VariantFilter.
func (f *QualityFilter) Type() model.FilterType { return model.FilterQuality }

// RunFilter implements VariantFilter.
func (f *QualityFilter) RunFilter(v *model.Variant) model.FilterResult {
	pass := v.Qual >= f.MinQuality
	return passOrFail(f.Type(), pass, boolScore(pass))
}

// FrequencyFilter removes variants seen in any population above
// MaxFrequency percent. Its score is the variant's frequency score.
type FrequencyFilter struct {
	MaxFrequency float64
}

// Type implements VariantFilter.
func (f *FrequencyFilter) Type() model.FilterType { return model.FilterFrequency }

// RunFilter implements VariantFilter.
func (f *FrequencyFilter) RunFilter(v *model.Variant) model.FilterResult {
	return passOrFail(f.Type(), v.Frequency.MaxFreq() <= f.MaxFrequency, v.FrequencyScore())
}

// DefaultPathogenicityThreshold is the score at which a variant counts as
// predicted pathogenic.
const DefaultPathogenicityThreshold = 0.5

// PathogenicityFilter removes variants predicted benign unless
// KeepNonPathogenic is set. Its score is the variant's pathogenicity score.
type PathogenicityFilter struct {
	KeepNonPathogenic bool
	Threshold         float64 // 0 uses DefaultPathogenicityThreshold
}

// Type implements VariantFilter.
func (f *PathogenicityFilter) Type() model.FilterType { return model.FilterPathogenicity }

// RunFilter implements VariantFilter.
func (f *PathogenicityFilter) RunFilter(v *model.Variant) model.FilterResult {
	threshold := f.Threshold
	if threshold <= 0 {
		threshold = DefaultPathogenicityThreshold
	}
	score := v.PathogenicityScore()
	return passOrFail(f.Type(), f.KeepNonPathogenic || score >= threshold, score)
}

// VariantEffectFilter removes variants whose effect is in Remove.
type VariantEffectFilter struct {
	Remove map[model.VariantEffect]bool
}

// NewVariantEffectFilter creates a filter removing the given effects.
func NewVariantEffectFilter(remove ...model.VariantEffect) *VariantEffectFilter {
	f := &VariantEffectFilter{Remove: make(map[model.VariantEffect]bool, len(remove))}
	for _, e := range remove {
		f.Remove[e] = true
	}
	return f
}

// Type implements VariantFilter.
func (f *VariantEffectFilter) Type() model.FilterType { return model.FilterVariantEffect }

// RunFilter implements VariantFilter.
func (f *VariantEffectFilter) RunFilter(v *model.Variant) model.FilterResult {
	pass := !f.Remove[v.Effect]
	return passOrFail(f.Type(), pass, boolScore(pass))
}

// IntervalFilter keeps variants inside any of a set of intervals.
type IntervalFilter struct {
	index *genome.Index[genome.Interval]
}

// NewIntervalFilter creates a filter over the given intervals.
func NewIntervalFilter(intervals []genome.Interval) *IntervalFilter {
	return &IntervalFilter{index: genome.NewIndex(intervals)}
}

// Type implements VariantFilter.
func (f *IntervalFilter) Type() model.FilterType { return model.FilterInterval }

// RunFilter implements VariantFilter.
func (f *IntervalFilter) RunFilter(v *model.Variant) model.FilterResult {
	pass := f.index.HasRegionContainingVariant(v)
	return passOrFail(f.Type(), pass, boolScore(pass))
}

// KnownVariantFilter removes variants already represented in a frequency
// database, by rsID or by any recorded frequency.
type KnownVariantFilter struct{}

// Type implements VariantFilter.
func (f *KnownVariantFilter) Type() model.FilterType { return model.FilterKnownVariant }

// RunFilter implements VariantFilter.
func (f *KnownVariantFilter) RunFilter(v *model.Variant) model.FilterResult {
	pass := !v.Frequency.RepresentedInDatabase()
	return passOrFail(f.Type(), pass, boolScore(pass))
}

func boolScore(pass bool) float64 {
	if pass {
		return 1
	}
	return 0
}
