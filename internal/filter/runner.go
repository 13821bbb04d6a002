package filter

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/inodb/vibe-exome/internal/model"
)

// Counts tallies filter outcomes.
type Counts struct {
	Passed int
	Failed int
}

// Stats tallies outcomes per filter type.
type Stats map[model.FilterType]*Counts

func (s Stats) record(r model.FilterResult) {
	c, ok := s[r.Type]
	if !ok {
		c = &Counts{}
		s[r.Type] = c
	}
	if r.Passed() {
		c.Passed++
	} else {
		c.Failed++
	}
}

// Types returns the filter types with recorded outcomes, sorted.
func (s Stats) Types() []model.FilterType {
	types := make([]model.FilterType, 0, len(s))
	for t := range s {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// VariantFilterRunner applies variant filters, fetching frequency and
// pathogenicity data from a DataService the first time a filter needs it.
// Not safe for concurrent use.
type VariantFilterRunner struct {
	data   DataService
	stats  Stats
	logger *zap.Logger
}

// NewVariantFilterRunner creates a runner. A nil data service supplies no data.
func NewVariantFilterRunner(data DataService) *VariantFilterRunner {
	if data == nil {
		data = NoDataService{}
	}
	return &VariantFilterRunner{
		data:   data,
		stats:  make(Stats),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (r *VariantFilterRunner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Stats returns the outcomes recorded so far.
func (r *VariantFilterRunner) Stats() Stats {
	return r.stats
}

// Run applies f to v and records the result on the variant. The variant is
// judged even if earlier filters failed it.
func (r *VariantFilterRunner) Run(f VariantFilter, v *model.Variant) (model.FilterResult, error) {
	if err := r.ensureData(f, v); err != nil {
		return model.FilterResult{}, err
	}
	result := f.RunFilter(v)
	v.AddFilterResult(result)
	r.stats.record(result)
	return result, nil
}

// RunAll applies each filter in order to v, without stopping at the first
// failure, and reports whether v passed all of them.
func (r *VariantFilterRunner) RunAll(filters []VariantFilter, v *model.Variant) (bool, error) {
	passed := true
	for _, f := range filters {
		result, err := r.Run(f, v)
		if err != nil {
			return false, err
		}
		passed = passed && result.Passed()
	}
	return passed, nil
}

// RunOnGenes applies f to every variant already attached to genes.
func (r *VariantFilterRunner) RunOnGenes(f VariantFilter, genes []*model.Gene) error {
	for _, g := range genes {
		for _, v := range g.Variants() {
			if _, err := r.Run(f, v); err != nil {
				return err
			}
		}
	}
	c := r.stats[f.Type()]
	if c != nil {
		r.logger.Debug("variant filter pass",
			zap.String("filter", string(f.Type())),
			zap.Int("passed", c.Passed),
			zap.Int("failed", c.Failed))
	}
	return nil
}

func (r *VariantFilterRunner) ensureData(f VariantFilter, v *model.Variant) error {
	switch f.(type) {
	case *FrequencyFilter, *KnownVariantFilter:
		if v.Frequency == nil {
			data, err := r.data.Frequency(v)
			if err != nil {
				return fmt.Errorf("fetch frequency data: %w", err)
			}
			if data == nil {
				data = &model.FrequencyData{}
			}
			// The input VCF may name a dbSNP id the frequency source lacks.
			if data.RsID == "" {
				data.RsID = v.RsID
			}
			v.Frequency = data
		}
	case *PathogenicityFilter:
		if v.Pathogenicity == nil {
			data, err := r.data.Pathogenicity(v)
			if err != nil {
				return fmt.Errorf("fetch pathogenicity data: %w", err)
			}
			v.Pathogenicity = data
		}
	}
	return nil
}

// GeneFilterRunner applies gene filters. Results are recorded on the gene
// only; variant filter results are left untouched.
type GeneFilterRunner struct {
	stats  Stats
	logger *zap.Logger
}

// NewGeneFilterRunner creates a runner.
func NewGeneFilterRunner() *GeneFilterRunner {
	return &GeneFilterRunner{stats: make(Stats), logger: zap.NewNop()}
}

// SetLogger sets the logger for warning and info messages.
func (r *GeneFilterRunner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Stats returns the outcomes recorded so far.
func (r *GeneFilterRunner) Stats() Stats {
	return r.stats
}

// Run applies f to every gene.
func (r *GeneFilterRunner) Run(f GeneFilter, genes []*model.Gene) {
	for _, g := range genes {
		result := f.RunFilter(g)
		g.AddFilterResult(result)
		r.stats.record(result)
	}
	if c := r.stats[f.Type()]; c != nil {
		r.logger.Debug("gene filter pass",
			zap.String("filter", string(f.Type())),
			zap.Int("passed", c.Passed),
			zap.Int("failed", c.Failed))
	}
}
