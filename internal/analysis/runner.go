package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inodb/vibe-exome/internal/annotate"
	"github.com/inodb/vibe-exome/internal/cache"
	"github.com/inodb/vibe-exome/internal/filter"
	"github.com/inodb/vibe-exome/internal/inheritance"
	"github.com/inodb/vibe-exome/internal/model"
	"github.com/inodb/vibe-exome/internal/pedigree"
	"github.com/inodb/vibe-exome/internal/prioritise"
	"github.com/inodb/vibe-exome/internal/registry"
	"github.com/inodb/vibe-exome/internal/score"
)

// ProgressInterval is the default number of streamed variants between
// progress reports.
const ProgressInterval = 100000

// ProgressFunc receives the number of variants streamed and how many of
// them passed the variant filters so far.
type ProgressFunc func(loaded, passed int)

// Analysis is the configuration of one run.
type Analysis struct {
	VCFPath          string
	Pedigree         *pedigree.Pedigree // nil: the proband alone
	Proband          string             // "": the first VCF sample
	InheritanceModes []model.ModeOfInheritance
	ScoringMode      score.Mode
	Weights          score.Weights
	Steps            []Step

	// PassOnly drops variants failing any variant filter while loading
	// instead of keeping them on their gene as failed.
	PassOnly bool
}

// Results is the outcome of a run.
type Results struct {
	RunID       uuid.UUID
	VCFPath     string
	ScoringMode score.Mode
	SampleNames []string
	Proband     string
	Modes       []model.ModeOfInheritance

	// Genes with at least one variant, best first.
	Genes []*model.Gene
	// Variants attached to genes, in load order.
	Variants []*model.Variant

	RecordsRead        int
	OffTargetVariants  int
	VariantFilterStats filter.Stats
	GeneFilterStats    filter.Stats
}

// State is the orchestration phase of a Runner.
type State int

// Runner states, in order.
const (
	StateInit State = iota
	StateSampleLoaded
	StateGrouped
	StateVariantLoadAndFilter
	StateGenePass
	StateScoring
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateSampleLoaded:
		return "SAMPLE_LOADED"
	case StateGrouped:
		return "GROUPED"
	case StateVariantLoadAndFilter:
		return "VARIANT_LOAD_AND_FILTER"
	case StateGenePass:
		return "GENE_PASS"
	case StateScoring:
		return "SCORING"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Runner executes analyses against a fixed gene universe. Variant loading
// and every step run on the calling goroutine: genes and variants are
// mutated without locking, so a Runner must not run two analyses at once.
type Runner struct {
	knownGenes []cache.KnownGene
	annotator  annotate.VariantAnnotator
	data       filter.DataService
	workers    int
	progress   ProgressFunc
	interval   int
	logger     *zap.Logger

	state     State
	analyser  *inheritance.Analyser
	loadCount int
}

// NewRunner creates a runner. A nil data service supplies no frequency or
// pathogenicity data.
func NewRunner(knownGenes []cache.KnownGene, annotator annotate.VariantAnnotator, data filter.DataService) *Runner {
	return &Runner{
		knownGenes: knownGenes,
		annotator:  annotator,
		data:       data,
		interval:   ProgressInterval,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// SetWorkers sets the goroutines used for registry build and annotation;
// 0 uses all CPUs.
func (r *Runner) SetWorkers(n int) {
	r.workers = n
}

// SetProgressFunc registers a callback invoked every progress interval
// streamed variants.
func (r *Runner) SetProgressFunc(fn ProgressFunc) {
	r.progress = fn
}

// SetProgressInterval sets how many streamed variants pass between progress
// reports. Values below 1 restore ProgressInterval.
func (r *Runner) SetProgressInterval(n int) {
	if n < 1 {
		n = ProgressInterval
	}
	r.interval = n
}

// State returns the phase the runner reached.
func (r *Runner) State() State {
	return r.state
}

// Analyser returns the inheritance analyser of the last run.
func (r *Runner) Analyser() *inheritance.Analyser {
	return r.analyser
}

// LoadCount returns how many times the last run streamed the VCF.
func (r *Runner) LoadCount() int {
	return r.loadCount
}

func (r *Runner) enter(s State) {
	r.state = s
	r.logger.Debug("analysis state", zap.Stringer("state", s))
}

// run holds the mutable state of one Run.
type run struct {
	analysis *Analysis
	stream   *VariantStream
	genes    map[string]*model.Gene
	all      []*model.Gene // every known gene, by identifier
	loaded   []*model.Variant

	variantRunner *filter.VariantFilterRunner
	geneRunner    *filter.GeneFilterRunner
	prioritiser   *prioritise.Runner

	variantsLoaded bool
	// inheritanceCurrent is set by an inheritance analysis and cleared by
	// any variant filter pass that may change which variants passed.
	inheritanceCurrent bool
	offTarget          int
}

// Run executes the analysis. Any error aborts the run and no results are
// returned.
func (r *Runner) Run(ctx context.Context, a Analysis) (*Results, error) {
	r.enter(StateInit)
	r.loadCount = 0
	runID := uuid.New()
	log := r.logger.With(zap.String("run_id", runID.String()))

	if err := CheckSteps(a.Steps, a.InheritanceModes); err != nil {
		return nil, err
	}
	weights := a.Weights
	if weights == (score.Weights{}) {
		weights = score.DefaultWeights()
	}
	scorer, err := score.New(a.ScoringMode, weights)
	if err != nil {
		return nil, fmt.Errorf("configure scoring: %w", err)
	}

	stream, err := OpenVariantStream(a.VCFPath, r.annotator)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	stream.SetWorkers(r.workers)

	ped, proband, err := resolvePedigree(a, stream.SampleNames())
	if err != nil {
		return nil, err
	}
	r.analyser = inheritance.NewAnalyser(ped, a.InheritanceModes)
	r.analyser.SetLogger(log)
	r.enter(StateSampleLoaded)

	genes, err := registry.Build(ctx, r.knownGenes, r.workers)
	if err != nil {
		return nil, err
	}
	log.Info("analysis started",
		zap.String("vcf", a.VCFPath),
		zap.String("proband", proband),
		zap.Int("samples", len(stream.SampleNames())),
		zap.Int("known_genes", len(genes)),
		zap.Int("steps", len(a.Steps)))

	st := &run{
		analysis:      &a,
		stream:        stream,
		genes:         genes,
		all:           sortedGenes(genes),
		variantRunner: filter.NewVariantFilterRunner(r.data),
		geneRunner:    filter.NewGeneFilterRunner(),
		prioritiser:   prioritise.NewRunner(),
	}
	st.variantRunner.SetLogger(log)
	st.geneRunner.SetLogger(log)
	st.prioritiser.SetLogger(log)

	groups := GroupSteps(a.Steps)
	r.enter(StateGrouped)

	if err := r.runSteps(ctx, st, groups, log); err != nil {
		return nil, err
	}
	if !st.variantsLoaded {
		if err := r.loadVariants(ctx, st, nil, log); err != nil {
			return nil, err
		}
	}

	r.enter(StateScoring)
	final := genesWithVariants(st.all)
	if !st.inheritanceCurrent && hasConcreteMode(a.InheritanceModes) {
		r.analyser.AnalyseInheritanceModes(final)
		st.inheritanceCurrent = true
	}
	scorer.ScoreGenes(final, r.analyser.Modes())
	score.Sort(final)

	r.enter(StateDone)
	log.Info("analysis finished",
		zap.Int("records", stream.Records()),
		zap.Int("variants", len(st.loaded)),
		zap.Int("off_target", st.offTarget),
		zap.Int("genes", len(final)))

	return &Results{
		RunID:              runID,
		VCFPath:            a.VCFPath,
		ScoringMode:        scoringMode(a.ScoringMode),
		SampleNames:        stream.SampleNames(),
		Proband:            proband,
		Modes:              r.analyser.Modes(),
		Genes:              final,
		Variants:           st.loaded,
		RecordsRead:        stream.Records(),
		OffTargetVariants:  st.offTarget,
		VariantFilterStats: st.variantRunner.Stats(),
		GeneFilterStats:    st.geneRunner.Stats(),
	}, nil
}

// runSteps executes the groups in order. The first variant filter group
// streams the VCF; every other group is a pass over the genes. Inheritance
// modes are analysed at most once per group, before its first step that
// depends on them.
func (r *Runner) runSteps(ctx context.Context, st *run, groups [][]Step, log *zap.Logger) error {
	for _, group := range groups {
		if group[0].Type() == StepVariantFilter && !st.variantsLoaded {
			filters := make([]filter.VariantFilter, len(group))
			for i, s := range group {
				filters[i] = s.VariantFilter()
			}
			if err := r.loadVariants(ctx, st, filters, log); err != nil {
				return err
			}
			continue
		}

		r.enter(StateGenePass)
		inheritanceAnalysed := false
		for _, s := range group {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Compatibility is only meaningful once variants are attached.
			if s.DependsOnInheritanceModes() && st.variantsLoaded && !inheritanceAnalysed {
				r.analyser.AnalyseInheritanceModes(genesWithVariants(st.all))
				inheritanceAnalysed = true
				st.inheritanceCurrent = true
			}
			if err := r.runStep(st, s, log); err != nil {
				return fmt.Errorf("run %s: %w", s.Name(), err)
			}
		}
	}
	return nil
}

// runStep runs one step over the working genes: every known gene before the
// variants are loaded, the genes with variants afterwards.
func (r *Runner) runStep(st *run, s Step, log *zap.Logger) error {
	genes := st.all
	if st.variantsLoaded {
		genes = genesWithVariants(st.all)
	}

	log.Debug("running step", zap.String("step", s.Name()), zap.Int("genes", len(genes)))
	switch s.Kind() {
	case KindVariantFilter:
		st.inheritanceCurrent = false
		return st.variantRunner.RunOnGenes(s.VariantFilter(), genes)
	case KindGeneFilter:
		st.geneRunner.Run(s.GeneFilter(), genes)
	case KindPrioritiser:
		st.prioritiser.Run(s.Prioritiser(), genes)
	default:
		panic(fmt.Sprintf("analysis: unknown step kind %v", s.Kind()))
	}
	return nil
}

// loadVariants streams the VCF once. Per variant, strictly in order: drop it
// if its gene is unknown, run every filter of the group, attach it to its
// gene.
func (r *Runner) loadVariants(ctx context.Context, st *run, filters []filter.VariantFilter, log *zap.Logger) error {
	r.enter(StateVariantLoadAndFilter)
	r.loadCount++
	st.variantsLoaded = true
	st.inheritanceCurrent = false

	loaded, passed := 0, 0
	for {
		v, err := st.stream.Next(ctx)
		if err != nil {
			return fmt.Errorf("load variants: %w", err)
		}
		if v == nil {
			break
		}
		loaded++
		ok, err := r.loadVariant(st, filters, v)
		if err != nil {
			return err
		}
		if ok {
			passed++
		}
		if loaded%r.interval == 0 {
			log.Info(fmt.Sprintf("Loaded %d variants - %d passed variant filters", loaded, passed))
			if r.progress != nil {
				r.progress(loaded, passed)
			}
		}
	}

	log.Info(fmt.Sprintf("Loaded %d variants - %d passed variant filters", loaded, passed),
		zap.Int("off_target", st.offTarget))
	return nil
}

// loadVariant drops v if its gene is unknown, runs the filters and attaches
// it to its gene. It reports whether v passed every filter.
func (r *Runner) loadVariant(st *run, filters []filter.VariantFilter, v *model.Variant) (bool, error) {
	gene, ok := st.genes[v.GeneSymbol]
	if !ok {
		st.offTarget++
		return false, nil
	}

	passed, err := st.variantRunner.RunAll(filters, v)
	if err != nil {
		return false, fmt.Errorf("filter %s: %w", v.Key(), err)
	}
	if !passed && st.analysis.PassOnly {
		return false, nil
	}
	gene.AddVariant(v)
	st.loaded = append(st.loaded, v)
	return passed, nil
}

func resolvePedigree(a Analysis, samples []string) (*pedigree.Pedigree, string, error) {
	proband := a.Proband
	if proband == "" {
		if len(samples) == 0 {
			return nil, "", fmt.Errorf("VCF %s has no sample columns", a.VCFPath)
		}
		proband = samples[0]
	}

	ped := a.Pedigree
	if ped == nil {
		ped = pedigree.SingleSample(proband)
	}
	if _, ok := ped.Get(proband); !ok {
		return nil, "", fmt.Errorf("proband %q is not in the pedigree", proband)
	}
	if err := ped.CheckSamples(samples); err != nil {
		return nil, "", err
	}
	return ped, proband, nil
}

func sortedGenes(genes map[string]*model.Gene) []*model.Gene {
	out := make([]*model.Gene, 0, len(genes))
	for _, g := range genes {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier.Less(out[j].Identifier) })
	return out
}

func genesWithVariants(genes []*model.Gene) []*model.Gene {
	var out []*model.Gene
	for _, g := range genes {
		if g.HasVariants() {
			out = append(out, g)
		}
	}
	return out
}

func scoringMode(m score.Mode) score.Mode {
	if m == "" {
		return score.ModeRaw
	}
	return m
}

func hasConcreteMode(modes []model.ModeOfInheritance) bool {
	for _, m := range modes {
		if m != model.ModeAny {
			return true
		}
	}
	return false
}
