package model

import (
	"strconv"
	"strings"
)

// Genotype is a diploid (or haploid) call for one sample.
type Genotype int

// Genotype calls.
const (
	GenotypeNoCall Genotype = iota
	GenotypeHomRef
	GenotypeHet
	GenotypeHomAlt
)

// ParseGenotype converts a VCF GT value relative to the given alt allele
// index (1-based). Alleles other than ref and altIndex count as reference.
func ParseGenotype(gt string, altIndex int) Genotype {
	if gt == "" || gt == "." {
		return GenotypeNoCall
	}
	allele := strconv.Itoa(altIndex)
	alleles := strings.FieldsFunc(gt, func(r rune) bool { return r == '/' || r == '|' })
	alt, called := 0, 0
	for _, a := range alleles {
		if a == "." {
			continue
		}
		called++
		if a == allele {
			alt++
		}
	}
	switch {
	case called == 0:
		return GenotypeNoCall
	case alt == 0:
		return GenotypeHomRef
	case alt == called:
		return GenotypeHomAlt
	default:
		return GenotypeHet
	}
}

// HasAlt reports whether the call carries at least one alternate allele.
func (g Genotype) HasAlt() bool {
	return g == GenotypeHet || g == GenotypeHomAlt
}

func (g Genotype) String() string {
	switch g {
	case GenotypeHomRef:
		return "0/0"
	case GenotypeHet:
		return "0/1"
	case GenotypeHomAlt:
		return "1/1"
	default:
		return "./."
	}
}
