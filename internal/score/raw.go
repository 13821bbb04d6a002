package score

import "github.com/inodb/vibe-exome/internal/model"

// RawScorer combines each gene's variant and priority scores directly as a
// weighted mean. Genes failing their filters score 0.
type RawScorer struct {
	Weights Weights
}

// ScoreGenes implements Scorer.
func (s *RawScorer) ScoreGenes(genes []*model.Gene, modes []model.ModeOfInheritance) {
	for _, e := range collect(genes, modes) {
		combined := 0.0
		if e.passed {
			combined = s.Weights.combine(e.variantScore, e.priority)
		}
		e.gene.AddGeneScore(model.NewGeneScore(e.gene.Identifier, e.mode, combined, e.variantScore, e.priority, e.contributing))
	}
}
