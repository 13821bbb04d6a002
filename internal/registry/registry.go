// Package registry builds the set of known genes that variants are attached to.
package registry

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/inodb/vibe-exome/internal/cache"
	"github.com/inodb/vibe-exome/internal/model"
)

// minShardSize keeps small inputs on a single goroutine.
const minShardSize = 4096

// Build creates one model.Gene per distinct gene symbol. The input is split
// into contiguous shards that are built in parallel and merged in shard
// order, so when a symbol occurs more than once the first entry in input
// order wins regardless of scheduling. Entries without a symbol are skipped.
// workers <= 0 uses GOMAXPROCS.
func Build(ctx context.Context, genes []cache.KnownGene, workers int) (map[string]*model.Gene, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	shardSize := max((len(genes)+workers-1)/workers, minShardSize)

	var shards [][]cache.KnownGene
	for start := 0; start < len(genes); start += shardSize {
		shards = append(shards, genes[start:min(start+shardSize, len(genes))])
	}

	built := make([]map[string]*model.Gene, len(shards))
	g, ctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		g.Go(func() error {
			m := make(map[string]*model.Gene, len(shard))
			for j := range shard {
				if j%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				kg := &shard[j]
				if kg.Symbol == "" {
					continue
				}
				if _, ok := m[kg.Symbol]; !ok {
					m[kg.Symbol] = model.NewGene(kg.Symbol, kg.ID)
				}
			}
			built[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build gene registry: %w", err)
	}

	result := make(map[string]*model.Gene, len(genes))
	for _, m := range built {
		for symbol, gene := range m {
			if _, ok := result[symbol]; !ok {
				result[symbol] = gene
			}
		}
	}
	return result, nil
}
