// Package inheritance decides which modes of inheritance the variants of a
// gene are compatible with, given the pedigree.
package inheritance

import (
	"go.uber.org/zap"

	"github.com/inodb/vibe-exome/internal/genome"
	"github.com/inodb/vibe-exome/internal/model"
	"github.com/inodb/vibe-exome/internal/pedigree"
)

// Analyser marks genes compatible with modes of inheritance and flags the
// variants that support each compatible mode.
type Analyser struct {
	pedigree    *pedigree.Pedigree
	modes       []model.ModeOfInheritance
	affected    []pedigree.Individual
	unaffected  []pedigree.Individual
	invocations int
	logger      *zap.Logger
}

// NewAnalyser creates an analyser for the requested modes. No modes means
// ModeAny.
func NewAnalyser(ped *pedigree.Pedigree, modes []model.ModeOfInheritance) *Analyser {
	if len(modes) == 0 {
		modes = []model.ModeOfInheritance{model.ModeAny}
	}
	return &Analyser{
		pedigree:   ped,
		modes:      modes,
		affected:   ped.Affected(),
		unaffected: ped.Unaffected(),
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (a *Analyser) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Modes returns the modes the analyser checks.
func (a *Analyser) Modes() []model.ModeOfInheritance {
	return a.modes
}

// Invocations returns how many times AnalyseInheritanceModes has run.
func (a *Analyser) Invocations() int {
	return a.invocations
}

// AnalyseInheritanceModes checks every gene with variants against each mode.
// Only variants that passed their filters are considered. Results of an
// earlier call are replaced.
func (a *Analyser) AnalyseInheritanceModes(genes []*model.Gene) {
	a.invocations++
	compatible := 0
	for _, g := range genes {
		g.ClearCompatibility()
		for _, v := range g.Variants() {
			v.ClearContributions()
		}
		if !g.HasVariants() {
			continue
		}
		candidates := g.PassedVariants()
		found := false
		for _, mode := range a.modes {
			contributing := a.compatibleVariants(mode, candidates)
			if len(contributing) == 0 {
				continue
			}
			g.SetCompatibleWith(mode)
			for _, v := range contributing {
				v.SetContributesToGeneScoreUnderMode(mode)
			}
			found = true
		}
		if found {
			compatible++
		}
	}
	a.logger.Debug("inheritance modes analysed",
		zap.Int("genes", len(genes)),
		zap.Int("compatible", compatible))
}

func (a *Analyser) compatibleVariants(mode model.ModeOfInheritance, variants []*model.Variant) []*model.Variant {
	switch mode {
	case model.ModeAny:
		return variants
	case model.ModeAutosomalDominant:
		return a.filterVariants(variants, isAutosomal, a.fitsDominant)
	case model.ModeAutosomalRecessive:
		return a.recessive(filterChrom(variants, isAutosomal), false)
	case model.ModeXDominant:
		return a.filterVariants(variants, isX, a.fitsXDominant)
	case model.ModeXRecessive:
		return a.recessive(filterChrom(variants, isX), true)
	default:
		panic("inheritance: unknown mode " + mode.String())
	}
}

func isAutosomal(chrom int) bool { return chrom >= 1 && chrom <= 22 }

func isX(chrom int) bool { return chrom == genome.ChromosomeX }

func filterChrom(variants []*model.Variant, keep func(int) bool) []*model.Variant {
	var out []*model.Variant
	for _, v := range variants {
		if keep(v.Chromosome()) {
			out = append(out, v)
		}
	}
	return out
}

func (a *Analyser) filterVariants(variants []*model.Variant, chrom func(int) bool, fits func(*model.Variant) bool) []*model.Variant {
	var out []*model.Variant
	for _, v := range variants {
		if chrom(v.Chromosome()) && a.anyAffectedCarrier(v) && fits(v) {
			out = append(out, v)
		}
	}
	return out
}

// anyAffectedCarrier reports whether an affected individual has a called
// alt allele, so that no-calls alone never make a variant compatible.
func (a *Analyser) anyAffectedCarrier(v *model.Variant) bool {
	for _, ind := range a.affected {
		if v.Genotype(ind.Name).HasAlt() {
			return true
		}
	}
	return false
}

// fitsDominant: affected are heterozygous, unaffected carry no alt allele.
func (a *Analyser) fitsDominant(v *model.Variant) bool {
	for _, ind := range a.affected {
		gt := v.Genotype(ind.Name)
		if gt != model.GenotypeHet && gt != model.GenotypeNoCall {
			return false
		}
	}
	for _, ind := range a.unaffected {
		if v.Genotype(ind.Name).HasAlt() {
			return false
		}
	}
	return true
}

// fitsXDominant: affected carry an alt allele, unaffected none.
func (a *Analyser) fitsXDominant(v *model.Variant) bool {
	for _, ind := range a.affected {
		gt := v.Genotype(ind.Name)
		if gt == model.GenotypeHomRef {
			return false
		}
	}
	for _, ind := range a.unaffected {
		if v.Genotype(ind.Name).HasAlt() {
			return false
		}
	}
	return true
}

// recessive returns the variants fitting a homozygous or compound
// heterozygous recessive model. On X, males only need one alt allele.
func (a *Analyser) recessive(variants []*model.Variant, xLinked bool) []*model.Variant {
	contributes := make(map[*model.Variant]bool)

	for _, v := range variants {
		if a.anyAffectedCarrier(v) && a.fitsHomozygous(v, xLinked) {
			contributes[v] = true
		}
	}

	var hets []*model.Variant
	for _, v := range variants {
		if a.anyAffectedCarrier(v) && a.hetInAffected(v, xLinked) {
			hets = append(hets, v)
		}
	}
	for i := 0; i < len(hets); i++ {
		for j := i + 1; j < len(hets); j++ {
			if a.fitsCompoundHet(hets[i], hets[j]) {
				contributes[hets[i]] = true
				contributes[hets[j]] = true
			}
		}
	}

	var out []*model.Variant
	for _, v := range variants {
		if contributes[v] {
			out = append(out, v)
		}
	}
	return out
}

func hemizygous(ind pedigree.Individual, xLinked bool) bool {
	return xLinked && ind.Sex == pedigree.SexMale
}

func (a *Analyser) fitsHomozygous(v *model.Variant, xLinked bool) bool {
	for _, ind := range a.affected {
		gt := v.Genotype(ind.Name)
		switch {
		case gt == model.GenotypeNoCall:
		case hemizygous(ind, xLinked):
			if !gt.HasAlt() {
				return false
			}
		case gt != model.GenotypeHomAlt:
			return false
		}
	}
	for _, ind := range a.unaffected {
		gt := v.Genotype(ind.Name)
		if hemizygous(ind, xLinked) {
			if gt.HasAlt() {
				return false
			}
		} else if gt == model.GenotypeHomAlt {
			return false
		}
	}
	return true
}

// hetInAffected reports whether every affected female (or any affected
// individual off X) is heterozygous or uncalled.
func (a *Analyser) hetInAffected(v *model.Variant, xLinked bool) bool {
	if len(a.affected) == 0 {
		return false
	}
	for _, ind := range a.affected {
		if hemizygous(ind, xLinked) {
			return false
		}
		gt := v.Genotype(ind.Name)
		if gt != model.GenotypeHet && gt != model.GenotypeNoCall {
			return false
		}
	}
	return true
}

// fitsCompoundHet: no unaffected individual is homozygous for either variant
// or carries both.
func (a *Analyser) fitsCompoundHet(v1, v2 *model.Variant) bool {
	for _, ind := range a.unaffected {
		gt1, gt2 := v1.Genotype(ind.Name), v2.Genotype(ind.Name)
		if gt1 == model.GenotypeHomAlt || gt2 == model.GenotypeHomAlt {
			return false
		}
		if gt1.HasAlt() && gt2.HasAlt() {
			return false
		}
	}
	return true
}
