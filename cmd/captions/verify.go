package main

import (
	"os"
	"runtime"
	"slices"
	"sync"

	"github.com/Noofbiz/imageCaption/datasets"
	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/pool"
)

type sampleFailure struct {
	Index int
	Err   error
}

// verifySamples loads every sample of ds with up to workers goroutines
// (0 means NumCPU) and returns the failures sorted by index. A failing sample
// does not stop the others.
func verifySamples(ds datasets.Dataset, workers int) []sampleFailure {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	bar := progressbar.NewOptions(ds.Len(),
		progressbar.OptionSetDescription("verifying"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowIts(),
	)

	var (
		mu       sync.Mutex
		failures []sampleFailure
	)
	p := pool.New().WithMaxGoroutines(workers)
	for i := range ds.Len() {
		p.Go(func() {
			defer func() { _ = bar.Add(1) }()
			if _, err := ds.Item(i); err != nil {
				mu.Lock()
				failures = append(failures, sampleFailure{Index: i, Err: err})
				mu.Unlock()
			}
		})
	}
	p.Wait()
	_ = bar.Finish()

	slices.SortFunc(failures, func(a, b sampleFailure) int { return a.Index - b.Index })
	return failures
}
