package genome

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testRegion struct {
	chrom      int
	start, end int64
	id         string
}

func (r testRegion) Chromosome() int { return r.chrom }
func (r testRegion) Start() int64    { return r.start }
func (r testRegion) End() int64      { return r.end }

type testVariant struct {
	chrom int
	pos   int64
}

func (v testVariant) Chromosome() int { return v.chrom }
func (v testVariant) Position() int64 { return v.pos }

func ids(regions []testRegion) []string {
	out := make([]string, len(regions))
	for i, r := range regions {
		out[i] = r.id
	}
	return out
}

func TestEmptyIndex(t *testing.T) {
	idx := EmptyIndex[testRegion]()
	assert.Empty(t, idx.RegionsOverlappingPosition(1, 100))
	assert.False(t, idx.HasRegionContainingPosition(1, 100))
	assert.False(t, idx.HasRegionContainingVariant(testVariant{1, 1}))
	assert.Equal(t, 0, idx.Size())
	assert.True(t, idx.Equal(NewIndex[testRegion](nil)))

	assert.Same(t, idx, EmptyIndex[testRegion]())
	assert.Same(t, idx, NewIndex[testRegion](nil))
	intervals := EmptyIndex[Interval]()
	assert.Same(t, intervals, EmptyIndex[Interval]())
	assert.Zero(t, intervals.Size())
}

func TestIndex_SingleRegionBoundaries(t *testing.T) {
	idx := NewIndex([]testRegion{{1, 100, 200, "A"}})

	assert.Equal(t, []string{"A"}, ids(idx.RegionsOverlappingPosition(1, 150)))
	assert.Len(t, idx.RegionsOverlappingPosition(1, 100), 1, "start boundary inclusive")
	assert.Len(t, idx.RegionsOverlappingPosition(1, 200), 1, "end boundary inclusive")
	assert.Empty(t, idx.RegionsOverlappingPosition(1, 99), "before start")
	assert.Empty(t, idx.RegionsOverlappingPosition(1, 201), "after end")
	assert.Empty(t, idx.RegionsOverlappingPosition(2, 150), "other chromosome")
	assert.Empty(t, idx.RegionsOverlappingPosition(ChromosomeUnknown, 150))
}

func TestIndex_NonOverlapping(t *testing.T) {
	idx := NewIndex([]testRegion{
		{1, 500, 600, "C"},
		{1, 100, 200, "A"},
		{1, 300, 400, "B"},
		{2, 100, 200, "D"},
	})

	assert.Equal(t, []string{"A"}, ids(idx.RegionsOverlappingPosition(1, 150)))
	assert.Empty(t, idx.RegionsOverlappingPosition(1, 250), "gap between A and B")
	assert.Equal(t, []string{"B"}, ids(idx.RegionsOverlappingPosition(1, 350)))
	assert.Equal(t, []string{"D"}, ids(idx.RegionsOverlappingPosition(2, 150)))
	assert.Equal(t, 4, idx.Size())
}

func TestIndex_OverlappingOrderIsStable(t *testing.T) {
	regions := []testRegion{
		{1, 200, 400, "C"},
		{1, 100, 300, "A"},
		{1, 150, 250, "B"},
		{1, 100, 300, "A2"},
	}
	idx := NewIndex(regions)

	assert.Equal(t, []string{"A", "A2", "B"}, ids(idx.RegionsOverlappingPosition(1, 175)))
	assert.Equal(t, []string{"A", "A2", "B", "C"}, ids(idx.RegionsOverlappingPosition(1, 250)))
	assert.Equal(t, []string{"C"}, ids(idx.RegionsOverlappingPosition(1, 350)))

	for range 5 {
		assert.Equal(t, []string{"A", "A2", "B", "C"}, ids(idx.RegionsOverlappingPosition(1, 250)))
	}
}

func TestIndex_LongEarlyRegionNotPruned(t *testing.T) {
	idx := NewIndex([]testRegion{
		{1, 1, 1000, "long"},
		{1, 10, 20, "short"},
	})

	assert.Equal(t, []string{"long"}, ids(idx.RegionsOverlappingPosition(1, 500)))
	assert.Equal(t, []string{"long", "short"}, ids(idx.RegionsOverlappingPosition(1, 15)))
}

func TestIndex_MatchesLinearScan(t *testing.T) {
	regions := []testRegion{
		{1, 1000, 5000, "A"},
		{1, 2000, 3000, "B"},
		{1, 4000, 8000, "C"},
		{1, 6000, 7000, "D"},
		{1, 9000, 10000, "E"},
		{1, 1, 20000, "F"},
	}
	idx := NewIndex(regions)

	for pos := int64(0); pos <= 21000; pos += 250 {
		var linear []string
		for _, r := range regions {
			if pos >= r.start && pos <= r.end {
				linear = append(linear, r.id)
			}
		}
		assert.ElementsMatch(t, linear, ids(idx.RegionsOverlappingPosition(1, pos)), "pos=%d", pos)
	}
}

func TestIndex_VariantQueries(t *testing.T) {
	idx := NewIndex([]testRegion{{ChromosomeX, 100, 200, "X1"}})

	assert.True(t, idx.HasRegionContainingVariant(testVariant{ChromosomeX, 100}))
	assert.False(t, idx.HasRegionContainingVariant(testVariant{ChromosomeX, 201}))
	assert.Equal(t, []string{"X1"}, ids(idx.RegionsContainingVariant(testVariant{ChromosomeX, 150})))
}

func TestIndex_Equal(t *testing.T) {
	a := NewIndex([]testRegion{{1, 1, 10, "A"}, {2, 5, 15, "B"}})
	b := NewIndex([]testRegion{{2, 5, 15, "B"}, {1, 1, 10, "A"}})
	c := NewIndex([]testRegion{{1, 1, 10, "A"}})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestChromosomeNumber(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"1", 1},
		{"chr1", 1},
		{"22", 22},
		{"chr22", 22},
		{"X", ChromosomeX},
		{"chrX", ChromosomeX},
		{"Y", ChromosomeY},
		{"MT", ChromosomeMT},
		{"chrM", ChromosomeMT},
		{"23", ChromosomeUnknown},
		{"GL000220.1", ChromosomeUnknown},
		{"", ChromosomeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChromosomeNumber(tt.name))
		})
	}
}

func TestChromosomeName(t *testing.T) {
	assert.Equal(t, "1", ChromosomeName(1))
	assert.Equal(t, "X", ChromosomeName(ChromosomeX))
	assert.Equal(t, "MT", ChromosomeName(ChromosomeMT))
	assert.Equal(t, ".", ChromosomeName(ChromosomeUnknown))
}
