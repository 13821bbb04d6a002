package inheritance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-exome/internal/model"
	"github.com/inodb/vibe-exome/internal/pedigree"
)

func trio(t *testing.T, probandSex pedigree.Sex) *pedigree.Pedigree {
	t.Helper()
	ped, err := pedigree.New([]pedigree.Individual{
		{Family: "F", Name: "PROBAND", Father: "FATHER", Mother: "MOTHER", Sex: probandSex, Affection: pedigree.Affected},
		{Family: "F", Name: "FATHER", Sex: pedigree.SexMale, Affection: pedigree.Unaffected},
		{Family: "F", Name: "MOTHER", Sex: pedigree.SexFemale, Affection: pedigree.Unaffected},
	})
	require.NoError(t, err)
	return ped
}

// call builds a passing variant with proband/father/mother genotypes.
func call(chrom string, pos int64, proband, father, mother model.Genotype) *model.Variant {
	v := model.NewVariant(chrom, pos, "A", "G")
	v.Genotypes["PROBAND"] = proband
	v.Genotypes["FATHER"] = father
	v.Genotypes["MOTHER"] = mother
	return v
}

func gene(variants ...*model.Variant) *model.Gene {
	g := model.NewGene("GENE", "1")
	for _, v := range variants {
		g.AddVariant(v)
	}
	return g
}

const (
	noCall = model.GenotypeNoCall
	homRef = model.GenotypeHomRef
	het    = model.GenotypeHet
	homAlt = model.GenotypeHomAlt
)

func TestAutosomalDominant(t *testing.T) {
	deNovo := call("1", 100, het, homRef, homRef)
	inherited := call("1", 200, het, het, homRef)
	hom := call("1", 300, homAlt, homRef, homRef)
	g := gene(deNovo, inherited, hom)

	a := NewAnalyser(trio(t, pedigree.SexFemale), []model.ModeOfInheritance{model.ModeAutosomalDominant})
	a.AnalyseInheritanceModes([]*model.Gene{g})

	assert.True(t, g.IsCompatibleWith(model.ModeAutosomalDominant))
	assert.True(t, deNovo.ContributesToGeneScoreUnderMode(model.ModeAutosomalDominant))
	assert.False(t, inherited.ContributesToGeneScoreUnderMode(model.ModeAutosomalDominant), "unaffected father carries it")
	assert.False(t, hom.ContributesToGeneScoreUnderMode(model.ModeAutosomalDominant))
}

func TestAutosomalDominant_IgnoresFailedVariants(t *testing.T) {
	v := call("1", 100, het, homRef, homRef)
	v.AddFilterResult(model.Fail(model.FilterQuality, 0))
	g := gene(v)

	a := NewAnalyser(trio(t, pedigree.SexFemale), []model.ModeOfInheritance{model.ModeAutosomalDominant})
	a.AnalyseInheritanceModes([]*model.Gene{g})

	assert.False(t, g.IsCompatibleWith(model.ModeAutosomalDominant))
	assert.False(t, v.ContributesToGeneScoreUnderMode(model.ModeAutosomalDominant))
}

func TestReanalysisReplacesEarlierResult(t *testing.T) {
	deNovo := call("1", 100, het, homRef, homRef)
	hom := call("1", 300, homAlt, homRef, homRef)
	g := gene(deNovo, hom)

	a := NewAnalyser(trio(t, pedigree.SexFemale), []model.ModeOfInheritance{model.ModeAutosomalDominant})
	a.AnalyseInheritanceModes([]*model.Gene{g})
	require.True(t, g.IsCompatibleWith(model.ModeAutosomalDominant))

	deNovo.AddFilterResult(model.Fail(model.FilterFrequency, 0))
	a.AnalyseInheritanceModes([]*model.Gene{g})

	assert.False(t, g.IsCompatibleWith(model.ModeAutosomalDominant))
	assert.Empty(t, g.CompatibleModes())
	assert.False(t, deNovo.ContributesToGeneScoreUnderMode(model.ModeAutosomalDominant))
}

func TestAutosomalRecessive_Homozygous(t *testing.T) {
	hom := call("2", 100, homAlt, het, het)
	parentHom := call("2", 200, homAlt, homAlt, het)
	g := gene(hom, parentHom)

	a := NewAnalyser(trio(t, pedigree.SexMale), []model.ModeOfInheritance{model.ModeAutosomalRecessive})
	a.AnalyseInheritanceModes([]*model.Gene{g})

	assert.True(t, g.IsCompatibleWith(model.ModeAutosomalRecessive))
	assert.True(t, hom.ContributesToGeneScoreUnderMode(model.ModeAutosomalRecessive))
	assert.False(t, parentHom.ContributesToGeneScoreUnderMode(model.ModeAutosomalRecessive))
}

func TestAutosomalRecessive_CompoundHet(t *testing.T) {
	fromFather := call("2", 100, het, het, homRef)
	fromMother := call("2", 200, het, homRef, het)
	g := gene(fromFather, fromMother)

	a := NewAnalyser(trio(t, pedigree.SexMale), []model.ModeOfInheritance{model.ModeAutosomalRecessive})
	a.AnalyseInheritanceModes([]*model.Gene{g})

	assert.True(t, g.IsCompatibleWith(model.ModeAutosomalRecessive))
	assert.True(t, fromFather.ContributesToGeneScoreUnderMode(model.ModeAutosomalRecessive))
	assert.True(t, fromMother.ContributesToGeneScoreUnderMode(model.ModeAutosomalRecessive))
}

func TestAutosomalRecessive_CisFromOneParent(t *testing.T) {
	v1 := call("2", 100, het, het, homRef)
	v2 := call("2", 200, het, het, homRef)
	g := gene(v1, v2)

	a := NewAnalyser(trio(t, pedigree.SexMale), []model.ModeOfInheritance{model.ModeAutosomalRecessive})
	a.AnalyseInheritanceModes([]*model.Gene{g})

	assert.False(t, g.IsCompatibleWith(model.ModeAutosomalRecessive))
}

func TestAutosomalRecessive_SingleHetIsNotEnough(t *testing.T) {
	g := gene(call("2", 100, het, het, homRef))

	a := NewAnalyser(trio(t, pedigree.SexMale), []model.ModeOfInheritance{model.ModeAutosomalRecessive})
	a.AnalyseInheritanceModes([]*model.Gene{g})

	assert.False(t, g.IsCompatibleWith(model.ModeAutosomalRecessive))
}

func TestXLinked(t *testing.T) {
	hemi := call("X", 100, homAlt, homRef, het)
	g := gene(hemi, call("3", 100, homAlt, homRef, het))

	a := NewAnalyser(trio(t, pedigree.SexMale), []model.ModeOfInheritance{
		model.ModeXRecessive, model.ModeXDominant, model.ModeAutosomalDominant,
	})
	a.AnalyseInheritanceModes([]*model.Gene{g})

	assert.True(t, g.IsCompatibleWith(model.ModeXRecessive))
	assert.True(t, hemi.ContributesToGeneScoreUnderMode(model.ModeXRecessive))
	assert.False(t, g.IsCompatibleWith(model.ModeXDominant), "carrier mother is unaffected")
	assert.False(t, g.IsCompatibleWith(model.ModeAutosomalDominant))
}

func TestXDominant(t *testing.T) {
	v := call("chrX", 100, het, homRef, homRef)
	g := gene(v)

	a := NewAnalyser(trio(t, pedigree.SexFemale), []model.ModeOfInheritance{model.ModeXDominant, model.ModeXRecessive})
	a.AnalyseInheritanceModes([]*model.Gene{g})

	assert.True(t, g.IsCompatibleWith(model.ModeXDominant))
	assert.False(t, g.IsCompatibleWith(model.ModeXRecessive), "affected female must be homozygous")
}

func TestModeAny(t *testing.T) {
	passing := call("5", 100, homRef, homRef, homRef)
	failing := call("5", 200, het, homRef, homRef)
	failing.AddFilterResult(model.Fail(model.FilterFrequency, 0))
	g := gene(passing, failing)

	a := NewAnalyser(trio(t, pedigree.SexFemale), nil)
	assert.Equal(t, []model.ModeOfInheritance{model.ModeAny}, a.Modes())
	a.AnalyseInheritanceModes([]*model.Gene{g, model.NewGene("EMPTY", "2")})

	assert.True(t, g.IsCompatibleWith(model.ModeAny))
	assert.True(t, passing.ContributesToGeneScoreUnderMode(model.ModeAny))
	assert.False(t, failing.ContributesToGeneScoreUnderMode(model.ModeAny))
}

func TestSingleSample(t *testing.T) {
	v := model.NewVariant("7", 100, "A", "G")
	v.Genotypes["S1"] = het
	uncalled := model.NewVariant("7", 200, "A", "G")
	uncalled.Genotypes["S1"] = noCall
	g := gene(v, uncalled)

	a := NewAnalyser(pedigree.SingleSample("S1"), []model.ModeOfInheritance{model.ModeAutosomalDominant})
	a.AnalyseInheritanceModes([]*model.Gene{g})

	assert.True(t, v.ContributesToGeneScoreUnderMode(model.ModeAutosomalDominant))
	assert.False(t, uncalled.ContributesToGeneScoreUnderMode(model.ModeAutosomalDominant))
}

func TestInvocations(t *testing.T) {
	a := NewAnalyser(pedigree.SingleSample("S1"), nil)
	assert.Equal(t, 0, a.Invocations())
	a.AnalyseInheritanceModes(nil)
	a.AnalyseInheritanceModes(nil)
	assert.Equal(t, 2, a.Invocations())
}
