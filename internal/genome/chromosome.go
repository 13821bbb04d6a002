// Package genome provides chromosome numbering and an interval index over
// chromosomal regions.
package genome

import "strconv"

// Chromosome numbers for the non-numeric human chromosomes.
const (
	ChromosomeUnknown = 0
	ChromosomeX       = 23
	ChromosomeY       = 24
	ChromosomeMT      = 25
)

// ChromosomeNumber converts a chromosome name ("1", "chr1", "X", "chrM") to
// its integer key. Returns ChromosomeUnknown for contigs outside 1-22, X, Y, MT.
func ChromosomeNumber(name string) int {
	name = NormalizeChrom(name)
	switch name {
	case "X", "x":
		return ChromosomeX
	case "Y", "y":
		return ChromosomeY
	case "M", "MT", "m", "mt":
		return ChromosomeMT
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < 1 || n > 22 {
		return ChromosomeUnknown
	}
	return n
}

// ChromosomeName returns the display name for a chromosome number.
func ChromosomeName(n int) string {
	switch n {
	case ChromosomeX:
		return "X"
	case ChromosomeY:
		return "Y"
	case ChromosomeMT:
		return "MT"
	}
	if n < 1 || n > 22 {
		return "."
	}
	return strconv.Itoa(n)
}

// NormalizeChrom strips a leading "chr" prefix.
func NormalizeChrom(chrom string) string {
	if len(chrom) > 3 && (chrom[:3] == "chr" || chrom[:3] == "CHR" || chrom[:3] == "Chr") {
		return chrom[3:]
	}
	return chrom
}
