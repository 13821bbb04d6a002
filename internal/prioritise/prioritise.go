// Package prioritise scores genes with external phenotype and gene list
// evidence.
package prioritise

import (
	"go.uber.org/zap"

	"github.com/inodb/vibe-exome/internal/datasource/genelist"
	"github.com/inodb/vibe-exome/internal/datasource/phenotype"
	"github.com/inodb/vibe-exome/internal/model"
)

// Prioritiser attaches a priority result to genes.
type Prioritiser interface {
	Type() model.PriorityType
	Prioritise(g *model.Gene) model.PriorityResult
}

// Runner applies prioritisers to a gene list.
type Runner struct {
	logger *zap.Logger
}

// NewRunner creates a prioritiser runner.
func NewRunner() *Runner {
	return &Runner{logger: zap.NewNop()}
}

// SetLogger sets the logger for warning and info messages.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Run records p's result on every gene.
func (r *Runner) Run(p Prioritiser, genes []*model.Gene) {
	for _, g := range genes {
		g.AddPriorityResult(p.Prioritise(g))
	}
	r.logger.Debug("prioritiser pass",
		zap.String("prioritiser", string(p.Type())),
		zap.Int("genes", len(genes)))
}

// PhenotypePrioritiser scores genes from a precomputed phenotype match
// table. Genes without a match get DefaultScore.
type PhenotypePrioritiser struct {
	scores       phenotype.Scores
	DefaultScore float64
}

// NewPhenotypePrioritiser creates a prioritiser over a score table.
func NewPhenotypePrioritiser(scores phenotype.Scores) *PhenotypePrioritiser {
	return &PhenotypePrioritiser{scores: scores}
}

// Type implements Prioritiser.
func (p *PhenotypePrioritiser) Type() model.PriorityType { return model.PriorityPhenotype }

// Prioritise implements Prioritiser.
func (p *PhenotypePrioritiser) Prioritise(g *model.Gene) model.PriorityResult {
	m, ok := p.scores[g.Symbol()]
	if !ok {
		return model.PriorityResult{Type: p.Type(), Score: p.DefaultScore, Description: "no phenotype match"}
	}
	return model.PriorityResult{Type: p.Type(), Score: m.Score, Description: m.Description}
}

// Default gene list scores.
const (
	DefaultListedScore   = 1.0
	DefaultUnlistedScore = 0.5
)

// GeneListPrioritiser favours genes on a curated list such as the OncoKB
// cancer gene list.
type GeneListPrioritiser struct {
	list          genelist.List
	ListedScore   float64
	UnlistedScore float64
}

// NewGeneListPrioritiser creates a prioritiser with the default scores.
func NewGeneListPrioritiser(list genelist.List) *GeneListPrioritiser {
	return &GeneListPrioritiser{
		list:          list,
		ListedScore:   DefaultListedScore,
		UnlistedScore: DefaultUnlistedScore,
	}
}

// Type implements Prioritiser.
func (p *GeneListPrioritiser) Type() model.PriorityType { return model.PriorityGeneList }

// Prioritise implements Prioritiser.
func (p *GeneListPrioritiser) Prioritise(g *model.Gene) model.PriorityResult {
	e, ok := p.list[g.Symbol()]
	if !ok {
		return model.PriorityResult{Type: p.Type(), Score: p.UnlistedScore}
	}
	desc := "listed"
	if e.GeneType != "" {
		desc = e.GeneType
	}
	return model.PriorityResult{Type: p.Type(), Score: p.ListedScore, Description: desc}
}
