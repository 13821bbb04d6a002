// Package filter implements the variant and gene filters of an analysis and
// the runners that apply them.
package filter

import (
	"github.com/inodb/vibe-exome/internal/model"
)

// VariantFilter judges a single variant.
type VariantFilter interface {
	Type() model.FilterType
	RunFilter(v *model.Variant) model.FilterResult
}

// GeneFilter judges a gene as a whole.
type GeneFilter interface {
	Type() model.FilterType
	RunFilter(g *model.Gene) model.FilterResult
	// DependsOnInheritanceModes reports whether the filter reads the gene's
	// inheritance mode compatibility.
	DependsOnInheritanceModes() bool
}

// DataService supplies the variant data some filters need. Implementations
// return empty, non-nil data for variants they know nothing about.
type DataService interface {
	Frequency(v *model.Variant) (*model.FrequencyData, error)
	Pathogenicity(v *model.Variant) (*model.PathogenicityData, error)
}

// NoDataService returns empty data for every variant.
type NoDataService struct{}

// Frequency implements DataService.
func (NoDataService) Frequency(*model.Variant) (*model.FrequencyData, error) {
	return &model.FrequencyData{}, nil
}

// Pathogenicity implements DataService.
func (NoDataService) Pathogenicity(*model.Variant) (*model.PathogenicityData, error) {
	return &model.PathogenicityData{}, nil
}

func passOrFail(t model.FilterType, pass bool, score float64) model.FilterResult {
	if pass {
		return model.Pass(t, score)
	}
	return model.Fail(t, score)
}
