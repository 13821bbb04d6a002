package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/inodb/vibe-exome/internal/annotate"
	"github.com/inodb/vibe-exome/internal/model"
	"github.com/inodb/vibe-exome/internal/vcf"
)

// DefaultBatchSize is the number of records read and annotated together.
const DefaultBatchSize = 1024

// headerAware annotators can read field layouts from the VCF header.
type headerAware interface {
	ConfigureFromHeader(header []string)
}

// VariantStream yields annotated variants from a VCF, one per alternate
// allele, in file order. It is single-pass and cannot be restarted. Records
// are read in batches that are annotated in parallel; Next hands them out
// sequentially.
type VariantStream struct {
	reader    vcf.RecordReader
	annotator annotate.VariantAnnotator
	samples   []string
	workers   int
	batchSize int

	pending []*model.Variant
	records int
	done    bool
	closed  bool
}

// OpenVariantStream opens a plain or gzipped VCF file.
func OpenVariantStream(path string, annotator annotate.VariantAnnotator) (*VariantStream, error) {
	p, err := vcf.NewParser(path)
	if err != nil {
		return nil, fmt.Errorf("open variant stream: %w", err)
	}
	return NewVariantStream(p, annotator), nil
}

// NewVariantStream streams records from reader. The stream owns the reader
// and closes it.
func NewVariantStream(reader vcf.RecordReader, annotator annotate.VariantAnnotator) *VariantStream {
	if h, ok := annotator.(headerAware); ok {
		h.ConfigureFromHeader(reader.Header())
	}
	return &VariantStream{
		reader:    reader,
		annotator: annotator,
		samples:   reader.SampleNames(),
		batchSize: DefaultBatchSize,
	}
}

// SetWorkers sets the number of annotation goroutines; 0 uses all CPUs.
func (s *VariantStream) SetWorkers(n int) {
	s.workers = n
}

// SampleNames returns the VCF sample columns.
func (s *VariantStream) SampleNames() []string {
	return s.samples
}

// Records returns the number of VCF records read so far.
func (s *VariantStream) Records() int {
	return s.records
}

// Next returns the next variant, or nil, nil at the end of input. The
// context is checked before each read.
func (s *VariantStream) Next(ctx context.Context) (*model.Variant, error) {
	for len(s.pending) == 0 {
		if s.done || s.closed {
			return nil, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.fill(); err != nil {
			return nil, err
		}
	}
	v := s.pending[0]
	s.pending[0] = nil
	s.pending = s.pending[1:]
	return v, nil
}

// fill reads up to batchSize records and annotates their variants.
func (s *VariantStream) fill() error {
	batch := make([]*model.Variant, 0, s.batchSize)
	for n := 0; n < s.batchSize; n++ {
		rec, err := s.reader.Next()
		if err != nil {
			return fmt.Errorf("read variant record at line %d: %w", s.reader.LineNumber(), err)
		}
		if rec == nil {
			s.done = true
			break
		}
		s.records++
		batch = append(batch, s.toVariants(rec)...)
	}
	annotate.AnnotateBatch(s.annotator, batch, s.workers)
	s.pending = batch
	return nil
}

// toVariants splits a record into one variant per alternate allele, with
// genotypes relative to that allele.
func (s *VariantStream) toVariants(rec *vcf.Record) []*model.Variant {
	alleles := rec.Alleles()
	rsID := ""
	for _, id := range rec.IDs() {
		if strings.HasPrefix(id, "rs") {
			rsID = id
			break
		}
	}
	out := make([]*model.Variant, 0, len(alleles))
	for _, a := range alleles {
		v := model.NewVariant(rec.Chrom, rec.Pos, rec.Ref, a.Alt)
		v.ID = rec.ID
		v.RsID = rsID
		v.Qual = rec.Qual
		v.Info = rec.Info
		for i, sample := range s.samples {
			if i < len(rec.GT) {
				v.Genotypes[sample] = model.ParseGenotype(rec.GT[i], a.Index)
			}
		}
		out = append(out, v)
	}
	return out
}

// Close releases the underlying reader. It is safe to call more than once.
func (s *VariantStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.pending = nil
	return s.reader.Close()
}
