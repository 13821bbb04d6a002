package genome

import (
	"fmt"
	"strconv"
	"strings"
)

// Interval is a concrete chromosomal region, 1-based and inclusive.
type Interval struct {
	chrom int
	start int64
	end   int64
}

// NewInterval creates an interval on a numbered chromosome.
func NewInterval(chrom int, start, end int64) Interval {
	return Interval{chrom: chrom, start: start, end: end}
}

// Chromosome returns the chromosome number.
func (iv Interval) Chromosome() int { return iv.chrom }

// Start returns the first base of the interval.
func (iv Interval) Start() int64 { return iv.start }

// End returns the last base of the interval.
func (iv Interval) End() int64 { return iv.end }

// String formats the interval as "chrom:start-end".
func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", ChromosomeName(iv.chrom), iv.start, iv.end)
}

// ParseInterval parses "chr1:100-200" or "1:100-200". A bare position
// ("1:150") yields a single-base interval.
func ParseInterval(s string) (Interval, error) {
	name, span, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || name == "" || span == "" {
		return Interval{}, fmt.Errorf("invalid interval %q: expected chrom:start-end", s)
	}

	chrom := ChromosomeNumber(name)
	if chrom == ChromosomeUnknown {
		return Interval{}, fmt.Errorf("invalid interval %q: unknown chromosome %q", s, name)
	}

	from, to, hasEnd := strings.Cut(span, "-")
	start, err := strconv.ParseInt(strings.ReplaceAll(from, ",", ""), 10, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval %q: bad start: %w", s, err)
	}
	end := start
	if hasEnd {
		end, err = strconv.ParseInt(strings.ReplaceAll(to, ",", ""), 10, 64)
		if err != nil {
			return Interval{}, fmt.Errorf("invalid interval %q: bad end: %w", s, err)
		}
	}

	if start < 1 || end < start {
		return Interval{}, fmt.Errorf("invalid interval %q: start must be >= 1 and <= end", s)
	}
	return NewInterval(chrom, start, end), nil
}
