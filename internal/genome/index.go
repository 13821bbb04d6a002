package genome

import (
	"reflect"
	"sort"
	"sync"
)

// Region is a closed, 1-based span on a numbered chromosome.
type Region interface {
	Chromosome() int
	Start() int64 // 1-based, inclusive
	End() int64   // 1-based, inclusive
}

// Indexable is a Region usable as an index entry.
type Indexable interface {
	comparable
	Region
}

// VariantCoordinates locates a variant for containment queries.
type VariantCoordinates interface {
	Chromosome() int
	Position() int64
}

// Index answers point containment queries over chromosomal regions. It holds
// one interval array per chromosome and is never modified after NewIndex
// returns, so any number of goroutines may query it concurrently.
type Index[T Indexable] struct {
	trees map[int]*intervalArray[T]
	size  int
}

// emptyIndexes holds the shared empty index of each region type, keyed by
// reflect.Type.
var emptyIndexes sync.Map

// EmptyIndex returns the shared index holding no regions. Every call for the
// same region type returns the same value.
func EmptyIndex[T Indexable]() *Index[T] {
	key := reflect.TypeFor[T]()
	if idx, ok := emptyIndexes.Load(key); ok {
		return idx.(*Index[T])
	}
	idx, _ := emptyIndexes.LoadOrStore(key, &Index[T]{})
	return idx.(*Index[T])
}

// NewIndex groups regions by chromosome and builds an interval array for each.
func NewIndex[T Indexable](regions []T) *Index[T] {
	if len(regions) == 0 {
		return EmptyIndex[T]()
	}

	byChrom := make(map[int][]T)
	for _, r := range regions {
		byChrom[r.Chromosome()] = append(byChrom[r.Chromosome()], r)
	}

	trees := make(map[int]*intervalArray[T], len(byChrom))
	for chrom, rs := range byChrom {
		trees[chrom] = buildIntervalArray(rs)
	}
	return &Index[T]{trees: trees, size: len(regions)}
}

// RegionsOverlappingPosition returns every region containing the 1-based
// position, ordered by start, then end, then insertion order. Unknown
// chromosomes yield an empty result.
func (idx *Index[T]) RegionsOverlappingPosition(chromosome int, position int64) []T {
	tree, ok := idx.trees[chromosome]
	if !ok {
		return nil
	}
	return tree.findOverlappingWithPoint(position - 1)
}

// RegionsContainingVariant returns the regions containing the variant position.
func (idx *Index[T]) RegionsContainingVariant(v VariantCoordinates) []T {
	return idx.RegionsOverlappingPosition(v.Chromosome(), v.Position())
}

// HasRegionContainingVariant reports whether any region contains the variant.
func (idx *Index[T]) HasRegionContainingVariant(v VariantCoordinates) bool {
	return idx.HasRegionContainingPosition(v.Chromosome(), v.Position())
}

// HasRegionContainingPosition reports whether any region contains the 1-based position.
func (idx *Index[T]) HasRegionContainingPosition(chromosome int, position int64) bool {
	return len(idx.RegionsOverlappingPosition(chromosome, position)) > 0
}

// Size returns the number of regions in the index.
func (idx *Index[T]) Size() int {
	return idx.size
}

// Equal reports whether both indexes hold the same regions per chromosome,
// irrespective of build order.
func (idx *Index[T]) Equal(other *Index[T]) bool {
	if idx == other {
		return true
	}
	if other == nil || idx.size != other.size || len(idx.trees) != len(other.trees) {
		return false
	}
	for chrom, tree := range idx.trees {
		otherTree, ok := other.trees[chrom]
		if !ok || len(tree.intervals) != len(otherTree.intervals) {
			return false
		}
		counts := make(map[T]int, len(tree.intervals))
		for _, iv := range tree.intervals {
			counts[iv.region]++
		}
		for _, iv := range otherTree.intervals {
			counts[iv.region]--
			if counts[iv.region] < 0 {
				return false
			}
		}
	}
	return true
}

// intervalArray is a sorted-slice interval tree with a prefix max-end array.
// Intervals use the 0-based half-open convention [begin, end).
type intervalArray[T Indexable] struct {
	intervals []interval[T]
	maxEnd    []int64 // maxEnd[i] = max(end) for intervals[:i+1]
}

type interval[T Indexable] struct {
	begin  int64
	end    int64
	region T
}

func buildIntervalArray[T Indexable](regions []T) *intervalArray[T] {
	intervals := make([]interval[T], len(regions))
	for i, r := range regions {
		intervals[i] = interval[T]{begin: r.Start() - 1, end: r.End(), region: r}
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		if intervals[i].begin != intervals[j].begin {
			return intervals[i].begin < intervals[j].begin
		}
		return intervals[i].end < intervals[j].end
	})

	maxEnd := make([]int64, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = max(intervals[i].end, maxEnd[i-1])
	}

	return &intervalArray[T]{intervals: intervals, maxEnd: maxEnd}
}

// findOverlappingWithPoint returns regions whose [begin, end) holds the 0-based point.
func (a *intervalArray[T]) findOverlappingWithPoint(point int64) []T {
	// Candidates are [0, hi): every interval starting at or before point.
	hi := sort.Search(len(a.intervals), func(i int) bool {
		return a.intervals[i].begin > point
	})

	var found []int
	for i := hi - 1; i >= 0; i-- {
		// Nothing in intervals[:i+1] reaches past point.
		if a.maxEnd[i] <= point {
			break
		}
		if a.intervals[i].end > point {
			found = append(found, i)
		}
	}

	result := make([]T, len(found))
	for j, i := range found {
		result[len(found)-1-j] = a.intervals[i].region
	}
	return result
}
