package analysis

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-exome/internal/annotate"
	"github.com/inodb/vibe-exome/internal/cache"
	"github.com/inodb/vibe-exome/internal/model"
	"github.com/inodb/vibe-exome/internal/vcf"
)

var testGenes = []cache.KnownGene{
	{ID: "G1", Symbol: "GENE1", Chrom: "1", From: 1000, To: 2000, Strand: 1},
	{ID: "G2", Symbol: "GENE2", Chrom: "1", From: 5000, To: 6000, Strand: -1},
	{ID: "G3", Symbol: "GENE3", Chrom: "2", From: 100, To: 500, Strand: 1},
	{ID: "G4", Symbol: "GENE4", Chrom: "4", From: 100, To: 500, Strand: 1},
}

const testVCF = `##fileformat=VCFv4.2
##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations from Ensembl VEP. Format: Allele|Consequence|IMPACT|SYMBOL|Gene">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	PROBAND
1	1500	rs1	A	G	60	PASS	CSQ=G|missense_variant|MODERATE|GENE1|G1	GT	0/1
1	1600	.	C	T	10	PASS	CSQ=T|stop_gained|HIGH|GENE1|G1	GT	0/1
1	5500	.	G	A,C	80	PASS	.	GT	1/2
2	300	.	T	C	90	PASS	CSQ=C|synonymous_variant|LOW|GENE3|G3	GT	1/1
3	100	.	A	T	99	PASS	CSQ=T|missense_variant|MODERATE|OFFTARGET|GX	GT	0/1
5	100	.	A	T	99	PASS	.	GT	0/1
`

func writeVCF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.vcf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestStream(t *testing.T, content string) *VariantStream {
	t.Helper()
	p, err := vcf.NewParserFromReader(strings.NewReader(content))
	require.NoError(t, err)
	return NewVariantStream(p, annotate.NewRegionAnnotator(testGenes))
}

func drain(t *testing.T, s *VariantStream) []*model.Variant {
	t.Helper()
	var out []*model.Variant
	for {
		v, err := s.Next(context.Background())
		require.NoError(t, err)
		if v == nil {
			return out
		}
		out = append(out, v)
	}
}

func TestVariantStream(t *testing.T) {
	s := newTestStream(t, testVCF)
	defer s.Close()

	assert.Equal(t, []string{"PROBAND"}, s.SampleNames())

	variants := drain(t, s)
	require.Len(t, variants, 7)
	assert.Equal(t, 6, s.Records())

	first := variants[0]
	assert.Equal(t, "1:1500:A>G", first.Key())
	assert.Equal(t, "rs1", first.ID)
	assert.Equal(t, "rs1", first.RsID)
	assert.Empty(t, variants[1].RsID)
	assert.Equal(t, 60.0, first.Qual)
	assert.Equal(t, "GENE1", first.GeneSymbol)
	assert.Equal(t, model.EffectMissense, first.Effect)
	assert.Equal(t, model.GenotypeHet, first.Genotype("PROBAND"))

	assert.Equal(t, "GENE3", variants[4].GeneSymbol)
	assert.Equal(t, model.GenotypeHomAlt, variants[4].Genotype("PROBAND"))
	assert.Equal(t, "OFFTARGET", variants[5].GeneSymbol)
	assert.Equal(t, model.EffectIntergenic, variants[6].Effect)
}

func TestVariantStream_MultiAllelic(t *testing.T) {
	s := newTestStream(t, testVCF)
	defer s.Close()

	variants := drain(t, s)
	require.Len(t, variants, 7)

	a, c := variants[2], variants[3]
	assert.Equal(t, "1:5500:G>A", a.Key())
	assert.Equal(t, "1:5500:G>C", c.Key())
	for _, v := range []*model.Variant{a, c} {
		assert.Equal(t, "GENE2", v.GeneSymbol)
		assert.Equal(t, "G2", v.GeneID)
		assert.Equal(t, model.EffectSequenceVariant, v.Effect)
		assert.Equal(t, model.GenotypeHet, v.Genotype("PROBAND"))
	}
}

func TestVariantStream_SmallBatches(t *testing.T) {
	s := newTestStream(t, testVCF)
	defer s.Close()
	s.batchSize = 2
	s.SetWorkers(4)

	var keys []string
	for _, v := range drain(t, s) {
		keys = append(keys, v.Key())
	}
	assert.Equal(t, []string{
		"1:1500:A>G", "1:1600:C>T", "1:5500:G>A", "1:5500:G>C",
		"2:300:T>C", "3:100:A>T", "5:100:A>T",
	}, keys)
}

func TestVariantStream_Cancelled(t *testing.T) {
	s := newTestStream(t, testVCF)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := s.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, v)
}

func TestVariantStream_CloseTwice(t *testing.T) {
	s, err := OpenVariantStream(writeVCF(t, testVCF), annotate.NewRegionAnnotator(testGenes))
	require.NoError(t, err)

	v, err := s.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())

	v, err = s.Next(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestOpenVariantStream_MissingFile(t *testing.T) {
	_, err := OpenVariantStream(filepath.Join(t.TempDir(), "missing.vcf"), annotate.NewRegionAnnotator(testGenes))
	assert.Error(t, err)
}
