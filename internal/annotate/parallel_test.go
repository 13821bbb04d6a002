package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/vibe-exome/internal/cache"
	"github.com/inodb/vibe-exome/internal/model"
)

func testAnnotator() *RegionAnnotator {
	return NewRegionAnnotator([]cache.KnownGene{
		{ID: "ENSG1", Symbol: "GENE1", Chrom: "1", From: 100, To: 1000},
	})
}

func makeVariants(n int) <-chan *model.Variant {
	ch := make(chan *model.Variant, n)
	for i := range n {
		ch <- model.NewVariant("1", int64(100+i), "A", "T")
	}
	close(ch)
	return ch
}

func TestParallelAnnotate(t *testing.T) {
	for _, workers := range []int{0, 1, 8} {
		seen := make(map[int64]bool)
		for v := range ParallelAnnotate(testAnnotator(), makeVariants(200), workers) {
			assert.Equal(t, "GENE1", v.GeneSymbol)
			assert.Equal(t, model.EffectSequenceVariant, v.Effect)
			assert.False(t, seen[v.Pos], "variant %d emitted twice", v.Pos)
			seen[v.Pos] = true
		}
		assert.Len(t, seen, 200, "workers=%d", workers)
	}
}

func TestParallelAnnotate_EmptyInput(t *testing.T) {
	ch := make(chan *model.Variant)
	close(ch)

	count := 0
	for range ParallelAnnotate(testAnnotator(), ch, 4) {
		count++
	}
	assert.Zero(t, count)
}

func TestAnnotateBatch(t *testing.T) {
	for _, workers := range []int{1, 4} {
		variants := make([]*model.Variant, 300)
		for i := range variants {
			variants[i] = model.NewVariant("1", int64(500+i*2), "A", "T")
		}

		AnnotateBatch(testAnnotator(), variants, workers)

		for i, v := range variants {
			if v.Pos <= 1000 {
				assert.Equal(t, "GENE1", v.GeneSymbol, "workers=%d variant %d", workers, i)
			} else {
				assert.Empty(t, v.GeneSymbol, "workers=%d variant %d", workers, i)
				assert.Equal(t, model.EffectIntergenic, v.Effect)
			}
		}
	}
}
