package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "cl100k_base", cfg.Encoding)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.False(t, cfg.Offline)
	assert.NoError(t, cfg.Validate())
}

func TestFromLookup(t *testing.T) {
	cfg := fromLookup(envMap(map[string]string{
		"TOKCIPHER_ENCODING":           "p50k_base",
		"TOKCIPHER_OFFLINE":            "yes",
		"TOKCIPHER_ADDR":               "127.0.0.1:9000",
		"TOKCIPHER_RATE_LIMIT":         "0.5",
		"TOKCIPHER_RATE_BURST":         "3",
		"TOKCIPHER_PARALLEL_THRESHOLD": "0",
		"TOKCIPHER_INIT_TIMEOUT":       "2s",
	}))

	assert.Equal(t, "p50k_base", cfg.Encoding)
	assert.True(t, cfg.Offline)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 0.5, cfg.RateLimit)
	assert.Equal(t, 3, cfg.RateBurst)
	assert.Equal(t, 0, cfg.ParallelThreshold)
	assert.Equal(t, 2*time.Second, cfg.InitTimeout)
}

func TestFromLookup_LowercaseWins(t *testing.T) {
	cfg := fromLookup(envMap(map[string]string{
		"tokcipher_addr": ":7000",
		"TOKCIPHER_ADDR": ":9000",
	}))
	assert.Equal(t, ":7000", cfg.Addr)
}

func TestFromLookup_InvalidKeepsDefault(t *testing.T) {
	cfg := fromLookup(envMap(map[string]string{
		"TOKCIPHER_OFFLINE":      "maybe",
		"TOKCIPHER_RATE_BURST":   "many",
		"TOKCIPHER_INIT_TIMEOUT": "soon",
	}))

	def := Default()
	assert.Equal(t, def.Offline, cfg.Offline)
	assert.Equal(t, def.RateBurst, cfg.RateBurst)
	assert.Equal(t, def.InitTimeout, cfg.InitTimeout)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TOKCIPHER_ENCODING", "r50k_base")
	assert.Equal(t, "r50k_base", FromEnv().Encoding)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Encoding = " "
	cfg.RateLimit = -1
	cfg.RateBurst = -1
	cfg.ParallelThreshold = -1
	cfg.InitTimeout = -time.Second

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "encoding")
	assert.Contains(t, err.Error(), "rate limit")
	assert.Contains(t, err.Error(), "rate burst")
	assert.Contains(t, err.Error(), "parallel threshold")
	assert.Contains(t, err.Error(), "init timeout")
}

func TestParallel(t *testing.T) {
	cfg := Default()
	cfg.ParallelThreshold = 0
	assert.False(t, cfg.Parallel().Enabled)

	cfg.ParallelThreshold = 128
	assert.Equal(t, 128, cfg.Parallel().Threshold)
}
