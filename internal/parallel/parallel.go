// Package parallel splits index ranges across goroutines for token-level work.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled   bool // Whether parallel execution is enabled.
	Workers   int  // Number of worker goroutines to use.
	Threshold int  // Minimum input length before work is split.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:   n > 1,
		Workers:   n,
		Threshold: 4096, // A few pages of prose in cl100k tokens.
	}
}

// Sequential returns a configuration that never spawns goroutines.
func Sequential() Config {
	return Config{Enabled: false, Workers: 1}
}

// Ranges calls f(start, end) for contiguous, non-overlapping chunks covering [0, n).
// Chunks run concurrently when cfg allows it; Ranges returns once every chunk is done.
func Ranges(n int, cfg Config, f func(start, end int)) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.Workers < 2 || n < cfg.Threshold {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	chunk := (n + cfg.Workers - 1) / cfg.Workers

	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}

// MapInts returns a new slice holding f applied to every element of src.
// The source slice is never modified.
func MapInts(src []int, cfg Config, f func(int) int) []int {
	dst := make([]int, len(src))
	Ranges(len(src), cfg, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(src[i])
		}
	})
	return dst
}
