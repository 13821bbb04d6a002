package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-exome/internal/model"
)

// scoredVariant returns a passing variant whose Score() is pathogenicity p
// (no frequency data).
func scoredVariant(pos int64, p float64) *model.Variant {
	v := model.NewVariant("1", pos, "A", "G")
	v.Effect = model.EffectIntron
	v.Pathogenicity = &model.PathogenicityData{Scores: []model.PathogenicityScore{{Source: "test", Score: p}}}
	return v
}

func geneWith(symbol string, priority float64, variants ...*model.Variant) *model.Gene {
	g := model.NewGene(symbol, "")
	for _, v := range variants {
		g.AddVariant(v)
	}
	if priority >= 0 {
		g.AddPriorityResult(model.PriorityResult{Type: model.PriorityPhenotype, Score: priority})
	}
	return g
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("rank_based")
	require.NoError(t, err)
	assert.Equal(t, ModeRankBased, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeRaw, m)

	_, err = ParseMode("median")
	assert.Error(t, err)
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.NoError(t, Weights{Variant: 1}.Validate())
	assert.Error(t, Weights{}.Validate())
	assert.Error(t, Weights{Variant: -1, Priority: 2}.Validate())
}

func TestNew(t *testing.T) {
	s, err := New(ModeRaw, DefaultWeights())
	require.NoError(t, err)
	assert.IsType(t, &RawScorer{}, s)

	s, err = New(ModeRankBased, DefaultWeights())
	require.NoError(t, err)
	assert.IsType(t, &RankBasedScorer{}, s)

	_, err = New(ModeRaw, Weights{})
	assert.Error(t, err)
	_, err = New("OTHER", DefaultWeights())
	assert.Error(t, err)
}

func TestRawScorer_ContributingVariantsUnderAD(t *testing.T) {
	flagged := scoredVariant(100, 0.8)
	flagged.SetContributesToGeneScoreUnderMode(model.ModeAutosomalDominant)
	failing := scoredVariant(200, 0.9)
	failing.AddFilterResult(model.Fail(model.FilterFrequency, 0))
	g := geneWith("GENE", 0.6, flagged, failing)

	s := &RawScorer{Weights: DefaultWeights()}
	s.ScoreGenes([]*model.Gene{g}, []model.ModeOfInheritance{model.ModeAutosomalDominant})

	gs, ok := g.GeneScoreForMode(model.ModeAutosomalDominant)
	require.True(t, ok)
	assert.Equal(t, []*model.Variant{flagged}, gs.ContributingVariants())
	assert.InDelta(t, 0.8, gs.VariantScore, 1e-9)
	assert.InDelta(t, 0.6, gs.PriorityScore, 1e-9)
	assert.InDelta(t, 0.7, gs.CombinedScore, 1e-9)
	assert.Equal(t, g.Identifier, gs.Identifier)
}

func TestRawScorer_NoModesScoresAny(t *testing.T) {
	v1 := scoredVariant(100, 0.4)
	v2 := scoredVariant(200, 0.9)
	g := geneWith("GENE", -1, v1, v2)

	(&RawScorer{Weights: DefaultWeights()}).ScoreGenes([]*model.Gene{g}, nil)

	scores := g.GeneScores()
	require.Len(t, scores, 1)
	assert.Equal(t, model.ModeAny, scores[0].Mode)
	assert.Len(t, scores[0].ContributingVariants(), 2)
	assert.InDelta(t, 0.9, scores[0].VariantScore, 1e-9)
	assert.InDelta(t, (0.9+1.0)/2, scores[0].CombinedScore, 1e-9, "priority defaults to 1")
}

func TestRawScorer_RecessiveAveragesTopTwo(t *testing.T) {
	vs := []*model.Variant{scoredVariant(1, 0.2), scoredVariant(2, 0.8), scoredVariant(3, 0.6)}
	for _, v := range vs {
		v.SetContributesToGeneScoreUnderMode(model.ModeAutosomalRecessive)
	}
	g := geneWith("GENE", 1, vs...)

	(&RawScorer{Weights: Weights{Variant: 1}}).ScoreGenes([]*model.Gene{g}, []model.ModeOfInheritance{model.ModeAutosomalRecessive})

	gs, _ := g.GeneScoreForMode(model.ModeAutosomalRecessive)
	assert.InDelta(t, 0.7, gs.VariantScore, 1e-9)
	assert.InDelta(t, 0.7, gs.CombinedScore, 1e-9)
}

func TestRawScorer_IncompatibleModeHasNoVariantScore(t *testing.T) {
	g := geneWith("GENE", 0.5, scoredVariant(1, 0.9))

	(&RawScorer{Weights: DefaultWeights()}).ScoreGenes([]*model.Gene{g}, []model.ModeOfInheritance{model.ModeAutosomalDominant})

	gs, _ := g.GeneScoreForMode(model.ModeAutosomalDominant)
	assert.Empty(t, gs.ContributingVariants())
	assert.Equal(t, 0.0, gs.VariantScore)
	assert.InDelta(t, 0.25, gs.CombinedScore, 1e-9)
}

func TestRawScorer_FailedGeneScoresZero(t *testing.T) {
	g := geneWith("GENE", 1, scoredVariant(1, 0.9))
	g.AddFilterResult(model.Fail(model.FilterGeneSymbol, 0))
	empty := model.NewGene("EMPTY", "")

	(&RawScorer{Weights: DefaultWeights()}).ScoreGenes([]*model.Gene{g, empty}, nil)

	assert.Equal(t, 0.0, g.CombinedScore())
	assert.Empty(t, empty.GeneScores(), "genes without variants are not scored")
}

func TestRankBasedScorer(t *testing.T) {
	a := geneWith("A", 0.9, scoredVariant(1, 0.9)) // variant rank 1, priority rank 1
	b := geneWith("B", 0.5, scoredVariant(2, 0.9)) // variant rank 1 (tie), priority rank 3
	c := geneWith("C", 0.8, scoredVariant(3, 0.1)) // variant rank 3, priority rank 2
	genes := []*model.Gene{c, b, a}

	(&RankBasedScorer{Weights: DefaultWeights()}).ScoreGenes(genes, nil)

	assert.InDelta(t, 1.0, a.CombinedScore(), 1e-9)
	assert.InDelta(t, 1-(2.0-1)/3, b.CombinedScore(), 1e-9)
	assert.InDelta(t, 1-(2.5-1)/3, c.CombinedScore(), 1e-9)

	Sort(genes)
	assert.Equal(t, []string{"A", "B", "C"}, symbols(genes))
}

func TestRankBasedScorer_AllInUnitInterval(t *testing.T) {
	var genes []*model.Gene
	for i, p := range []float64{0.1, 0.3, 0.3, 0.7, 1.0} {
		genes = append(genes, geneWith(string(rune('A'+i)), p, scoredVariant(int64(i), 1-p)))
	}
	(&RankBasedScorer{Weights: DefaultWeights()}).ScoreGenes(genes, []model.ModeOfInheritance{model.ModeAny})

	for _, g := range genes {
		s := g.CombinedScore()
		assert.Greater(t, s, 0.0, g.Symbol())
		assert.LessOrEqual(t, s, 1.0, g.Symbol())
	}
}

func TestCompetitionRanks(t *testing.T) {
	values := []float64{0.5, 0.9, 0.5, 0.1}
	ranks := competitionRanks([]int{0, 1, 2, 3}, func(i int) float64 { return values[i] })
	assert.Equal(t, []float64{2, 1, 2, 4}, ranks)
}

func TestSort_TiesByIdentifier(t *testing.T) {
	genes := []*model.Gene{
		geneWith("ZNF1", 1, scoredVariant(1, 0.5)),
		geneWith("ABCA4", 1, scoredVariant(2, 0.5)),
		geneWith("TOP", 1, scoredVariant(3, 0.9)),
		model.NewGene("UNSCORED", ""),
	}
	(&RawScorer{Weights: DefaultWeights()}).ScoreGenes(genes, nil)

	Sort(genes)
	assert.Equal(t, []string{"TOP", "ABCA4", "ZNF1", "UNSCORED"}, symbols(genes))
}

func symbols(genes []*model.Gene) []string {
	out := make([]string, len(genes))
	for i, g := range genes {
		out[i] = g.Symbol()
	}
	return out
}
