// Package vcf provides VCF file parsing functionality.
package vcf

// RecordReader is the interface for sources of VCF records.
type RecordReader interface {
	// Next reads the next record.
	// Returns nil, nil when there are no more records.
	Next() (*Record, error)

	// Header returns the meta lines and the #CHROM line.
	Header() []string

	// SampleNames returns the sample columns declared in the header.
	SampleNames() []string

	// Close closes the reader and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}
