// Package config holds process settings for tokcipher.
//
// Settings come from defaults overridden by environment variables. Each
// variable is looked up in lowercase first and then uppercase, so both
// docker-compose style and shell style names work.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/born-ml/tokcipher/internal/parallel"
	"github.com/born-ml/tokcipher/internal/tokenizer"
)

// Config is the runtime configuration.
type Config struct {
	// Encoding is a tiktoken encoding, model name or HuggingFace model directory.
	Encoding string

	// Offline loads tiktoken vocabularies embedded in the binary.
	Offline bool

	// Addr is the HTTP listen address.
	Addr string

	// RateLimit is the sustained requests per second allowed per client.
	RateLimit float64

	// RateBurst is the number of requests a client may send at once.
	RateBurst int

	// ParallelThreshold is the token count above which rotation is split
	// across goroutines. Zero disables splitting.
	ParallelThreshold int

	// InitTimeout bounds tokenizer loading. Zero means no bound.
	InitTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Encoding:          tokenizer.EncodingCL100kBase,
		Offline:           false,
		Addr:              ":8080",
		RateLimit:         5,
		RateBurst:         10,
		ParallelThreshold: 4096,
		InitTimeout:       30 * time.Second,
	}
}

// FromEnv returns Default overridden by TOKCIPHER_* environment variables.
// Unparsable values keep the default.
func FromEnv() Config {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) Config {
	cfg := Default()
	get := func(key string) string {
		return firstNonEmpty(getenv(strings.ToLower(key)), getenv(key))
	}

	if v := get("TOKCIPHER_ENCODING"); v != "" {
		cfg.Encoding = v
	}
	cfg.Offline = parseBool(get("TOKCIPHER_OFFLINE"), cfg.Offline)
	if v := get("TOKCIPHER_ADDR"); v != "" {
		cfg.Addr = v
	}
	cfg.RateLimit = parseFloat(get("TOKCIPHER_RATE_LIMIT"), cfg.RateLimit)
	cfg.RateBurst = parseInt(get("TOKCIPHER_RATE_BURST"), cfg.RateBurst)
	cfg.ParallelThreshold = parseInt(get("TOKCIPHER_PARALLEL_THRESHOLD"), cfg.ParallelThreshold)
	cfg.InitTimeout = parseDuration(get("TOKCIPHER_INIT_TIMEOUT"), cfg.InitTimeout)
	return cfg
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Encoding) == "" {
		errs = append(errs, errors.New("encoding must not be empty"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit))
	}
	if c.RateBurst < 0 {
		errs = append(errs, fmt.Errorf("rate burst must not be negative, got %d", c.RateBurst))
	}
	if c.ParallelThreshold < 0 {
		errs = append(errs, fmt.Errorf("parallel threshold must not be negative, got %d", c.ParallelThreshold))
	}
	if c.InitTimeout < 0 {
		errs = append(errs, fmt.Errorf("init timeout must not be negative, got %s", c.InitTimeout))
	}
	return errors.Join(errs...)
}

// Parallel returns the rotation split settings.
func (c Config) Parallel() parallel.Config {
	if c.ParallelThreshold == 0 {
		return parallel.Sequential()
	}
	cfg := parallel.DefaultConfig()
	cfg.Threshold = c.ParallelThreshold
	return cfg
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

func parseDuration(s string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}
