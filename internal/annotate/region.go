package annotate

import (
	"github.com/inodb/vibe-exome/internal/cache"
	"github.com/inodb/vibe-exome/internal/genome"
)

// GeneRegion places a known gene on a numbered chromosome for indexing.
type GeneRegion struct {
	Gene  *cache.KnownGene
	chrom int
}

// Chromosome implements genome.Region.
func (r GeneRegion) Chromosome() int { return r.chrom }

// Start implements genome.Region.
func (r GeneRegion) Start() int64 { return r.Gene.From }

// End implements genome.Region.
func (r GeneRegion) End() int64 { return r.Gene.To }

// NewGeneIndex builds a region index over the known genes. Genes on contigs
// without a chromosome number are left out.
func NewGeneIndex(genes []cache.KnownGene) *genome.Index[GeneRegion] {
	regions := make([]GeneRegion, 0, len(genes))
	for i := range genes {
		chrom := genome.ChromosomeNumber(genes[i].Chrom)
		if chrom == genome.ChromosomeUnknown || genes[i].Symbol == "" {
			continue
		}
		regions = append(regions, GeneRegion{Gene: &genes[i], chrom: chrom})
	}
	return genome.NewIndex(regions)
}
