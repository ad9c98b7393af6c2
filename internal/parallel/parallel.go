// Package parallel provides the worker-pool helper used to partition
// large elementwise operations across CPU cores.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum outer positions per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1024,
	}
}

// Serial disables parallelism entirely.
func Serial() Config { return Config{} }

// Ranges partitions [0, n) into disjoint chunks and runs f(start, end) per
// chunk on its own worker, collecting the first error. With parallelism
// disabled or n below the chunk threshold a single chunk runs inline.
func Ranges(n int, f func(start, end int) error, cfg Config) error {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		return f(0, n)
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.NumWorkers)
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error { return f(start, end) })
	}
	return g.Wait()
}
