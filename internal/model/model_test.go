package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenotype(t *testing.T) {
	tests := []struct {
		gt   string
		alt  int
		want Genotype
	}{
		{"0/1", 1, GenotypeHet},
		{"1|0", 1, GenotypeHet},
		{"1/1", 1, GenotypeHomAlt},
		{"0/0", 1, GenotypeHomRef},
		{"./.", 1, GenotypeNoCall},
		{".", 1, GenotypeNoCall},
		{"", 1, GenotypeNoCall},
		{"1/2", 2, GenotypeHet},
		{"2/2", 2, GenotypeHomAlt},
		{"1/1", 2, GenotypeHomRef},
		{"1", 1, GenotypeHomAlt},
		{"0/.", 1, GenotypeHomRef},
	}

	for _, tt := range tests {
		t.Run(tt.gt, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGenotype(tt.gt, tt.alt))
		})
	}
}

func TestParseEffect(t *testing.T) {
	assert.Equal(t, EffectMissense, ParseEffect("missense_variant"))
	assert.Equal(t, EffectSpliceRegion, ParseEffect("splice_region_variant&intron_variant"))
	assert.Equal(t, EffectStopGained, ParseEffect("intron_variant,stop_gained"))
	assert.Equal(t, EffectSequenceVariant, ParseEffect(""))
}

func TestVariantEffect_Impact(t *testing.T) {
	assert.Equal(t, ImpactHigh, EffectStopGained.Impact())
	assert.Equal(t, ImpactModerate, EffectMissense.Impact())
	assert.Equal(t, ImpactLow, EffectSynonymous.Impact())
	assert.Equal(t, ImpactModifier, EffectIntron.Impact())
}

func TestFilterResults_ReplaceKeepsOrder(t *testing.T) {
	var fr FilterResults
	fr.Add(Pass(FilterQuality, 1))
	fr.Add(Fail(FilterFrequency, 0))
	assert.False(t, fr.Passed())

	fr.Add(Pass(FilterFrequency, 0.9))
	assert.True(t, fr.Passed())
	require.Len(t, fr.All(), 2)
	assert.Equal(t, FilterQuality, fr.All()[0].Type)
	assert.Equal(t, 0.9, fr.All()[1].Score)

	_, ok := fr.Get(FilterInterval)
	assert.False(t, ok)
}

func TestFrequencyData_Score(t *testing.T) {
	var none *FrequencyData
	assert.Equal(t, 1.0, none.Score())
	assert.False(t, none.RepresentedInDatabase())

	common := &FrequencyData{Frequencies: []Frequency{{"gnomad", 5}}}
	assert.Equal(t, 0.0, common.Score())

	rare := &FrequencyData{Frequencies: []Frequency{{"gnomad", 0.01}, {"esp", 0.02}}}
	assert.InDelta(t, 0.9973, rare.Score(), 0.001)
	assert.Equal(t, 0.02, rare.MaxFreq())

	assert.True(t, (&FrequencyData{RsID: "rs1"}).RepresentedInDatabase())
}

func TestVariant_Score(t *testing.T) {
	v := NewVariant("chr12", 25245350, "C", "A")
	assert.Equal(t, 12, v.Chromosome())
	assert.Equal(t, "chr12:25245350:C>A", v.Key())

	v.Effect = EffectMissense
	assert.Equal(t, 0.6, v.Score())

	v.Pathogenicity = &PathogenicityData{Scores: []PathogenicityScore{{Source: "alphamissense", Score: 0.98}}}
	assert.Equal(t, 0.98, v.Score())

	v.Frequency = &FrequencyData{Frequencies: []Frequency{{"gnomad", 3}}}
	assert.Equal(t, 0.0, v.Score())
}

func TestVariant_ContributingFlags(t *testing.T) {
	v := NewVariant("1", 100, "A", "G")
	assert.False(t, v.ContributesToGeneScoreUnderMode(ModeAutosomalDominant))
	v.SetContributesToGeneScoreUnderMode(ModeAutosomalDominant)
	assert.True(t, v.ContributesToGeneScoreUnderMode(ModeAutosomalDominant))
	assert.False(t, v.ContributesToGeneScoreUnderMode(ModeAutosomalRecessive))
}

func TestGene_PassedFilters(t *testing.T) {
	g := NewGene("FGFR2", "ENSG00000066468")
	assert.False(t, g.PassedFilters(), "gene without variants")

	pass := NewVariant("10", 1, "A", "G")
	fail := NewVariant("10", 2, "A", "G")
	fail.AddFilterResult(Fail(FilterQuality, 0))
	g.AddVariant(pass)
	g.AddVariant(fail)

	assert.True(t, g.PassedFilters())
	assert.Equal(t, []*Variant{pass}, g.PassedVariants())

	g.AddFilterResult(Fail(FilterInheritance, 0))
	assert.False(t, g.PassedFilters())
	assert.True(t, pass.PassedFilters(), "gene results do not leak onto variants")
}

func TestGene_PriorityScore(t *testing.T) {
	g := NewGene("A", "1")
	assert.Equal(t, 1.0, g.PriorityScore())

	g.AddPriorityResult(PriorityResult{Type: PriorityPhenotype, Score: 0.5})
	g.AddPriorityResult(PriorityResult{Type: PriorityGeneList, Score: 0.8})
	assert.InDelta(t, 0.4, g.PriorityScore(), 1e-9)
	assert.Equal(t, PriorityGeneList, g.PriorityResults()[0].Type)
}

func TestGene_Scores(t *testing.T) {
	g := NewGene("A", "1")
	_, ok := g.TopGeneScore()
	assert.False(t, ok)

	v := NewVariant("1", 1, "A", "G")
	contributing := []*Variant{v}
	g.AddGeneScore(NewGeneScore(g.Identifier, ModeAutosomalDominant, 0.4, 0.4, 1, contributing))
	g.AddGeneScore(NewGeneScore(g.Identifier, ModeAutosomalRecessive, 0.7, 0.7, 1, nil))
	contributing[0] = nil

	top, ok := g.TopGeneScore()
	require.True(t, ok)
	assert.Equal(t, ModeAutosomalRecessive, top.Mode)
	assert.Equal(t, 0.7, g.CombinedScore())

	ad, ok := g.GeneScoreForMode(ModeAutosomalDominant)
	require.True(t, ok)
	assert.Equal(t, []*Variant{v}, ad.ContributingVariants())
}

func TestGeneIdentifier_Less(t *testing.T) {
	assert.True(t, GeneIdentifier{"A", "2"}.Less(GeneIdentifier{"B", "1"}))
	assert.True(t, GeneIdentifier{"A", "1"}.Less(GeneIdentifier{"A", "2"}))
	assert.False(t, GeneIdentifier{"A", "1"}.Less(GeneIdentifier{"A", "1"}))
}

func TestParseModeOfInheritance(t *testing.T) {
	for _, s := range []string{"AD", "autosomal_dominant", "AUTOSOMAL_DOMINANT"} {
		m, err := ParseModeOfInheritance(s)
		require.NoError(t, err)
		assert.Equal(t, ModeAutosomalDominant, m)
	}
	m, err := ParseModeOfInheritance("xr")
	require.NoError(t, err)
	assert.Equal(t, ModeXRecessive, m)

	_, err = ParseModeOfInheritance("MITOCHONDRIAL")
	assert.Error(t, err)
}
