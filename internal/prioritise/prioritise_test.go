package prioritise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-exome/internal/datasource/genelist"
	"github.com/inodb/vibe-exome/internal/datasource/phenotype"
	"github.com/inodb/vibe-exome/internal/model"
)

func geneWithVariant(symbol string) *model.Gene {
	g := model.NewGene(symbol, "")
	g.AddVariant(model.NewVariant("1", 100, "A", "G"))
	return g
}

func TestPhenotypePrioritiser(t *testing.T) {
	p := NewPhenotypePrioritiser(phenotype.Scores{
		"FGFR2": {Symbol: "FGFR2", Score: 0.9, Description: "Crouzon syndrome"},
	})
	p.DefaultScore = 0.1

	r := p.Prioritise(model.NewGene("FGFR2", ""))
	assert.Equal(t, model.PriorityResult{Type: model.PriorityPhenotype, Score: 0.9, Description: "Crouzon syndrome"}, r)

	r = p.Prioritise(model.NewGene("KRAS", ""))
	assert.Equal(t, 0.1, r.Score)
}

func TestGeneListPrioritiser(t *testing.T) {
	p := NewGeneListPrioritiser(genelist.List{
		"TP53": {HugoSymbol: "TP53", GeneType: "TSG"},
	})

	r := p.Prioritise(model.NewGene("TP53", ""))
	assert.Equal(t, model.PriorityGeneList, r.Type)
	assert.Equal(t, DefaultListedScore, r.Score)
	assert.Equal(t, "TSG", r.Description)

	r = p.Prioritise(model.NewGene("OR4F5", ""))
	assert.Equal(t, DefaultUnlistedScore, r.Score)
}

func TestRunner_ScoresEveryGene(t *testing.T) {
	scored := geneWithVariant("FGFR2")
	empty := model.NewGene("KRAS", "")

	p := NewPhenotypePrioritiser(phenotype.Scores{"FGFR2": {Symbol: "FGFR2", Score: 0.8}})
	NewRunner().Run(p, []*model.Gene{scored, empty})

	r, ok := scored.PriorityResult(model.PriorityPhenotype)
	require.True(t, ok)
	assert.Equal(t, 0.8, r.Score)

	r, ok = empty.PriorityResult(model.PriorityPhenotype)
	require.True(t, ok)
	assert.Equal(t, 0.0, r.Score)
}

func TestRunner_PriorityScoreIsProduct(t *testing.T) {
	g := geneWithVariant("TP53")
	runner := NewRunner()
	runner.Run(NewPhenotypePrioritiser(phenotype.Scores{"TP53": {Symbol: "TP53", Score: 0.6}}), []*model.Gene{g})
	runner.Run(NewGeneListPrioritiser(genelist.List{}), []*model.Gene{g})

	assert.InDelta(t, 0.3, g.PriorityScore(), 1e-9)
}
