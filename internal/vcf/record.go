package vcf

import "strings"

// Record is one VCF data line. Multi-allelic records keep all alternate
// alleles; use Alleles to split them.
type Record struct {
	Chrom  string            // Chromosome name (e.g., "12", "chr12")
	Pos    int64             // 1-based genomic position
	ID     string            // Variant identifier (e.g., rs ID)
	Ref    string            // Reference allele
	Alts   []string          // Alternate alleles
	Qual   float64           // Quality score, 0 when "."
	Filter string            // Filter status (PASS or filter name)
	Info   map[string]string // INFO key-value pairs; flags map to ""

	// GT holds the raw GT value of each sample, in header order.
	GT []string
}

// Allele is a single alternate allele of a Record.
type Allele struct {
	Alt   string
	Index int // 1-based index into Record.Alts, as used in GT values
}

// Alleles returns the record's alternate alleles, skipping the "*" spanning
// deletion placeholder and "." missing alleles.
func (r *Record) Alleles() []Allele {
	alleles := make([]Allele, 0, len(r.Alts))
	for i, alt := range r.Alts {
		if alt == "*" || alt == "." || alt == "" {
			continue
		}
		alleles = append(alleles, Allele{Alt: alt, Index: i + 1})
	}
	return alleles
}

// IDs returns the non-missing identifiers in the ID column.
func (r *Record) IDs() []string {
	if r.ID == "" || r.ID == "." {
		return nil
	}
	return strings.Split(r.ID, ";")
}
