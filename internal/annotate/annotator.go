// Package annotate assigns genes and variant effects to variants, either
// from CSQ/ANN annotations already present in the VCF or from the known
// gene regions that overlap the variant.
package annotate

import (
	"go.uber.org/zap"

	"github.com/inodb/vibe-exome/internal/cache"
	"github.com/inodb/vibe-exome/internal/genome"
	"github.com/inodb/vibe-exome/internal/model"
)

// VariantAnnotator sets gene membership and effect on a variant.
// Implementations must be safe for concurrent use.
type VariantAnnotator interface {
	Annotate(v *model.Variant)
}

// RegionAnnotator annotates variants from INFO consequence fields, falling
// back to the first overlapping known gene.
type RegionAnnotator struct {
	index   *genome.Index[GeneRegion]
	formats []consequenceFormat
	logger  *zap.Logger
}

// NewRegionAnnotator creates an annotator over the known gene regions.
func NewRegionAnnotator(genes []cache.KnownGene) *RegionAnnotator {
	return &RegionAnnotator{
		index:   NewGeneIndex(genes),
		formats: defaultFormats(),
		logger:  zap.NewNop(),
	}
}

func defaultFormats() []consequenceFormat {
	return []consequenceFormat{vepFormat, annFormat}
}

// SetLogger sets the logger for warning and info messages.
func (a *RegionAnnotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// ConfigureFromHeader picks up CSQ and ANN field layouts declared in the
// VCF header. Keys without a declaration use the default layout, whatever
// an earlier header declared.
func (a *RegionAnnotator) ConfigureFromHeader(header []string) {
	a.formats = defaultFormats()
	for _, line := range header {
		f, ok := parseFormatLine(line)
		if !ok {
			continue
		}
		for i := range a.formats {
			if a.formats[i].key == f.key {
				a.formats[i] = f
			}
		}
		a.logger.Debug("consequence format from header",
			zap.String("key", f.key),
			zap.Int("symbol_field", f.symbol),
			zap.Int("consequence_field", f.consequence))
	}
}

// Index returns the gene region index.
func (a *RegionAnnotator) Index() *genome.Index[GeneRegion] {
	return a.index
}

// Annotate sets GeneSymbol, GeneID and Effect. Variants outside every known
// gene and without INFO annotation become intergenic with no gene.
func (a *RegionAnnotator) Annotate(v *model.Variant) {
	for _, f := range a.formats {
		value, ok := v.Info[f.key]
		if !ok || value == "" {
			continue
		}
		e, ok := mostSevere(f.entries(value), v.Ref, v.Alt)
		if !ok {
			continue
		}
		v.Effect = e.effect
		v.GeneSymbol = e.symbol
		v.GeneID = e.geneID
		if v.GeneSymbol == "" {
			a.annotateFromRegions(v, false)
		}
		return
	}

	a.annotateFromRegions(v, true)
}

func (a *RegionAnnotator) annotateFromRegions(v *model.Variant, setEffect bool) {
	regions := a.index.RegionsContainingVariant(v)
	if len(regions) == 0 {
		if setEffect {
			v.Effect = model.EffectIntergenic
		}
		return
	}

	// The first region in index order owns the variant.
	g := regions[0].Gene
	v.GeneSymbol = g.Symbol
	if v.GeneID == "" {
		v.GeneID = g.ID
	}
	if setEffect {
		v.Effect = model.EffectSequenceVariant
	}
}
