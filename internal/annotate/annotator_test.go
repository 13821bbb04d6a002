package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/vibe-exome/internal/cache"
	"github.com/inodb/vibe-exome/internal/genome"
	"github.com/inodb/vibe-exome/internal/model"
)

var knownGenes = []cache.KnownGene{
	{ID: "ENSG00000066468", Symbol: "FGFR2", Chrom: "10", From: 121478334, To: 121598458, Strand: -1},
	{ID: "ENSG00000133703", Symbol: "KRAS", Chrom: "12", From: 25205246, To: 25250936, Strand: -1},
	{ID: "ENSG00000999999", Symbol: "KRAS-AS", Chrom: "chr12", From: 25240000, To: 25260000, Strand: 1},
	{ID: "ENSG00000000001", Symbol: "ALTCONTIG", Chrom: "GL000192.1", From: 1, To: 1000},
}

func variantWithInfo(chrom string, pos int64, ref, alt string, info map[string]string) *model.Variant {
	v := model.NewVariant(chrom, pos, ref, alt)
	v.Info = info
	return v
}

func TestNewGeneIndex(t *testing.T) {
	idx := NewGeneIndex(knownGenes)
	assert.Equal(t, 3, idx.Size())

	regions := idx.RegionsOverlappingPosition(12, 25245351)
	if assert.Len(t, regions, 2) {
		assert.Equal(t, "KRAS", regions[0].Gene.Symbol)
		assert.Equal(t, "KRAS-AS", regions[1].Gene.Symbol)
	}
}

func TestAnnotate_FromRegions(t *testing.T) {
	a := NewRegionAnnotator(knownGenes)

	tests := []struct {
		name   string
		v      *model.Variant
		symbol string
		geneID string
		effect model.VariantEffect
	}{
		{"inside FGFR2", model.NewVariant("10", 121500000, "A", "G"), "FGFR2", "ENSG00000066468", model.EffectSequenceVariant},
		{"overlap takes first region", model.NewVariant("chr12", 25245351, "C", "A"), "KRAS", "ENSG00000133703", model.EffectSequenceVariant},
		{"second region only", model.NewVariant("12", 25255000, "C", "A"), "KRAS-AS", "ENSG00000999999", model.EffectSequenceVariant},
		{"gene boundary", model.NewVariant("12", 25205246, "C", "A"), "KRAS", "ENSG00000133703", model.EffectSequenceVariant},
		{"intergenic", model.NewVariant("12", 25205245, "C", "A"), "", "", model.EffectIntergenic},
		{"unknown contig", model.NewVariant("GL000192.1", 10, "C", "A"), "", "", model.EffectIntergenic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a.Annotate(tt.v)
			assert.Equal(t, tt.symbol, tt.v.GeneSymbol)
			assert.Equal(t, tt.geneID, tt.v.GeneID)
			assert.Equal(t, tt.effect, tt.v.Effect)
		})
	}
}

func TestAnnotate_CSQ(t *testing.T) {
	a := NewRegionAnnotator(knownGenes)

	v := variantWithInfo("12", 25245351, "C", "A", map[string]string{
		"CSQ": "A|intron_variant|MODIFIER|KRAS-AS|ENSG00000999999,A|missense_variant|MODERATE|KRAS|ENSG00000133703,T|stop_gained|HIGH|KRAS|ENSG00000133703",
	})
	a.Annotate(v)

	assert.Equal(t, "KRAS", v.GeneSymbol)
	assert.Equal(t, "ENSG00000133703", v.GeneID)
	assert.Equal(t, model.EffectMissense, v.Effect, "entries for other alleles are ignored")
}

func TestAnnotate_CSQDeletionAllele(t *testing.T) {
	a := NewRegionAnnotator(knownGenes)

	v := variantWithInfo("10", 121500000, "AT", "A", map[string]string{
		"CSQ": "-|frameshift_variant|HIGH|FGFR2|ENSG00000066468",
	})
	a.Annotate(v)

	assert.Equal(t, "FGFR2", v.GeneSymbol)
	assert.Equal(t, model.EffectFrameshift, v.Effect)
}

func TestAnnotate_CSQWithoutSymbolUsesRegions(t *testing.T) {
	a := NewRegionAnnotator(knownGenes)

	v := variantWithInfo("10", 121500000, "A", "G", map[string]string{
		"CSQ": "G|splice_region_variant&intron_variant|LOW||",
	})
	a.Annotate(v)

	assert.Equal(t, "FGFR2", v.GeneSymbol)
	assert.Equal(t, model.EffectSpliceRegion, v.Effect)
}

func TestAnnotate_ANN(t *testing.T) {
	a := NewRegionAnnotator(knownGenes)

	v := variantWithInfo("12", 25245351, "C", "A", map[string]string{
		"ANN": "A|missense_variant|MODERATE|KRAS|ENSG00000133703|transcript|ENST00000311936.8",
	})
	a.Annotate(v)

	assert.Equal(t, "KRAS", v.GeneSymbol)
	assert.Equal(t, model.EffectMissense, v.Effect)
}

func TestAnnotate_HeaderFormat(t *testing.T) {
	a := NewRegionAnnotator(knownGenes)
	a.ConfigureFromHeader([]string{
		"##fileformat=VCFv4.2",
		`##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations from Ensembl VEP. Format: Allele|Gene|SYMBOL|Consequence|IMPACT">`,
	})

	v := variantWithInfo("12", 25245351, "C", "A", map[string]string{
		"CSQ": "A|ENSG00000133703|KRAS|stop_gained|HIGH",
	})
	a.Annotate(v)

	assert.Equal(t, "KRAS", v.GeneSymbol)
	assert.Equal(t, "ENSG00000133703", v.GeneID)
	assert.Equal(t, model.EffectStopGained, v.Effect)
}

func TestAnnotate_HeaderFormatNotCarriedOver(t *testing.T) {
	a := NewRegionAnnotator(knownGenes)
	a.ConfigureFromHeader([]string{
		`##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations from Ensembl VEP. Format: Allele|Gene|SYMBOL|Consequence|IMPACT">`,
	})
	a.ConfigureFromHeader([]string{"##fileformat=VCFv4.2"})

	v := variantWithInfo("12", 25245351, "C", "A", map[string]string{
		"CSQ": "A|stop_gained|HIGH|KRAS|ENSG00000133703",
	})
	a.Annotate(v)

	assert.Equal(t, "KRAS", v.GeneSymbol)
	assert.Equal(t, "ENSG00000133703", v.GeneID)
	assert.Equal(t, model.EffectStopGained, v.Effect)
}

func TestParseFormatLine(t *testing.T) {
	f, ok := parseFormatLine(`##INFO=<ID=ANN,Number=.,Type=String,Description="Functional annotations: 'Allele | Annotation | Annotation_Impact | Gene_Name | Gene_ID | Feature_Type'">`)
	assert.True(t, ok)
	assert.Equal(t, consequenceFormat{key: "ANN", allele: 0, consequence: 1, symbol: 3, geneID: 4}, f)

	_, ok = parseFormatLine(`##INFO=<ID=DP,Number=1,Type=Integer,Description="Depth">`)
	assert.False(t, ok)
}

func TestTrimmedAllele(t *testing.T) {
	tests := []struct {
		ref, alt, want string
	}{
		{"C", "A", "A"},
		{"AT", "A", "-"},
		{"A", "ATT", "TT"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, trimmedAllele(tt.ref, tt.alt), "%s>%s", tt.ref, tt.alt)
	}
}

func TestGeneRegion_ImplementsRegion(t *testing.T) {
	var _ genome.Region = GeneRegion{}
}
