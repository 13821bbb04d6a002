package annotate

import (
	"runtime"
	"sync"

	"github.com/inodb/vibe-exome/internal/model"
)

// ParallelAnnotate annotates variants using a pool of workers. Each variant
// is sent to the returned channel once annotated, in completion order; the
// channel is closed after the input is drained.
// If workers is 0, runtime.NumCPU() is used.
func ParallelAnnotate(a VariantAnnotator, variants <-chan *model.Variant, workers int) <-chan *model.Variant {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan *model.Variant, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for v := range variants {
				a.Annotate(v)
				results <- v
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// AnnotateBatch annotates variants in place with a worker pool and returns
// once every variant is done. Small batches run on the calling goroutine.
func AnnotateBatch(a VariantAnnotator, variants []*model.Variant, workers int) {
	if workers == 1 || len(variants) < 64 {
		for _, v := range variants {
			a.Annotate(v)
		}
		return
	}

	in := make(chan *model.Variant, len(variants))
	for _, v := range variants {
		in <- v
	}
	close(in)

	for range ParallelAnnotate(a, in, workers) {
	}
}
