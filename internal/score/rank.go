package score

import (
	"sort"

	"github.com/inodb/vibe-exome/internal/model"
)

// RankBasedScorer ranks genes separately on variant and priority score,
// then maps the weighted mean rank onto (0, 1], 1 being the best. Ties share
// the best rank of their group. Genes failing their filters score 0.
type RankBasedScorer struct {
	Weights Weights
}

// ScoreGenes implements Scorer.
func (s *RankBasedScorer) ScoreGenes(genes []*model.Gene, modes []model.ModeOfInheritance) {
	all := collect(genes, modes)

	byMode := make(map[model.ModeOfInheritance][]int)
	var order []model.ModeOfInheritance
	for i, e := range all {
		if _, ok := byMode[e.mode]; !ok {
			order = append(order, e.mode)
		}
		byMode[e.mode] = append(byMode[e.mode], i)
	}

	for _, mode := range order {
		idx := byMode[mode]
		variantRanks := competitionRanks(idx, func(i int) float64 { return all[i].variantScore })
		priorityRanks := competitionRanks(idx, func(i int) float64 { return all[i].priority })
		n := float64(len(idx))

		for k, i := range idx {
			e := all[i]
			combined := 0.0
			if e.passed {
				rank := s.Weights.combine(variantRanks[k], priorityRanks[k])
				combined = 1 - (rank-1)/n
			}
			e.gene.AddGeneScore(model.NewGeneScore(e.gene.Identifier, mode, combined, e.variantScore, e.priority, e.contributing))
		}
	}
}

// competitionRanks ranks idx by value, highest first: rank = 1 + the number
// of entries with a strictly greater value.
func competitionRanks(idx []int, value func(int) float64) []float64 {
	sorted := make([]float64, len(idx))
	for k, i := range idx {
		sorted[k] = value(i)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	ranks := make([]float64, len(idx))
	for k, i := range idx {
		v := value(i)
		greater := sort.Search(len(sorted), func(j int) bool { return sorted[j] <= v })
		ranks[k] = float64(greater + 1)
	}
	return ranks
}
