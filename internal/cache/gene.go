// Package cache loads the universe of known genes from GENCODE annotation
// and keeps a serialized copy on disk.
package cache

// KnownGene is one gene of the reference annotation.
type KnownGene struct {
	ID      string // Gene identifier (e.g., ENSG00000133703)
	Symbol  string // Gene symbol (e.g., KRAS)
	Chrom   string // Chromosome, without "chr" prefix
	From    int64  // Gene start position (1-based)
	To      int64  // Gene end position (1-based, inclusive)
	Strand  int8   // +1 (forward) or -1 (reverse)
	Biotype string // Gene biotype (e.g., protein_coding)
}
