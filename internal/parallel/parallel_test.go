package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRanges_CoversEveryIndex(t *testing.T) {
	cfg := Config{Enabled: true, Workers: 4, Threshold: 8}

	n := 1001
	seen := make([]int32, n)
	Ranges(n, cfg, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	})

	for i, v := range seen {
		if v != 1 {
			t.Fatalf("index %d visited %d times", i, v)
		}
	}
}

func TestRanges_Sequential(t *testing.T) {
	var calls int
	Ranges(100, Sequential(), func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 100, end)
	})
	assert.Equal(t, 1, calls)
}

func TestRanges_BelowThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Workers = 8

	var calls int64
	Ranges(cfg.Threshold-1, cfg, func(_, _ int) {
		atomic.AddInt64(&calls, 1)
	})
	assert.Equal(t, int64(1), calls)
}

func TestRanges_Empty(t *testing.T) {
	Ranges(0, DefaultConfig(), func(_, _ int) {
		t.Fatal("f must not be called for an empty range")
	})
}

func TestMapInts(t *testing.T) {
	src := make([]int, 5000)
	for i := range src {
		src[i] = i
	}

	par := MapInts(src, Config{Enabled: true, Workers: 3, Threshold: 16}, func(v int) int { return v * 2 })
	seq := MapInts(src, Sequential(), func(v int) int { return v * 2 })

	assert.Equal(t, seq, par)
	assert.Equal(t, 4999, src[4999], "source must not be modified")
	assert.Equal(t, 9998, par[4999])
}

func BenchmarkMapInts(b *testing.B) {
	src := make([]int, 100_000)
	for i := range src {
		src[i] = i
	}
	inc := func(v int) int { return (v + 7) % 100256 }

	b.Run("parallel", func(b *testing.B) {
		cfg := DefaultConfig()
		for i := 0; i < b.N; i++ {
			_ = MapInts(src, cfg, inc)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = MapInts(src, Sequential(), inc)
		}
	})
}
