// Package engine owns the tokenizer lifecycle for token rotation.
//
// The tokenizer vocabulary is loaded once, asynchronously. Until loading
// succeeds every transform is a no-op; a failed load is logged, recorded and
// never retried.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lwch/logging"

	"github.com/born-ml/tokcipher/internal/cipher"
	"github.com/born-ml/tokcipher/internal/parallel"
	"github.com/born-ml/tokcipher/internal/tokenizer"
)

// ErrNotReady is returned while the tokenizer is loading or after it failed to load.
var ErrNotReady = errors.New("tokenizer not ready")

// State is the lifecycle stage of the tokenizer.
type State int32

const (
	// StatePending means loading has not finished.
	StatePending State = iota
	// StateReady means transforms can run.
	StateReady
	// StateFailed means loading failed; transforms stay disabled.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loader produces the tokenizer. It is called at most once per Engine.
type Loader func(ctx context.Context) (tokenizer.Tokenizer, error)

type loaded struct {
	pipeline *cipher.Pipeline
	name     string
}

// Engine runs transforms once its tokenizer is loaded.
type Engine struct {
	loader  Loader
	par     parallel.Config
	timeout time.Duration

	once  sync.Once
	done  chan struct{}
	state atomic.Int32
	ready atomic.Pointer[loaded]
	err   error // written before done is closed
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallel sets how long token sequences are split across goroutines.
func WithParallel(cfg parallel.Config) Option {
	return func(e *Engine) {
		e.par = cfg
	}
}

// WithInitTimeout bounds how long loading may take. Zero means no bound.
func WithInitTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// New creates an engine. Loading starts with Start.
func New(loader Loader, opts ...Option) *Engine {
	e := &Engine{
		loader: loader,
		par:    parallel.DefaultConfig(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins loading the tokenizer in the background.
// Only the first call has an effect.
func (e *Engine) Start(ctx context.Context) {
	e.once.Do(func() {
		go e.load(ctx)
	})
}

func (e *Engine) load(ctx context.Context) {
	defer close(e.done)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	l, err := e.init(ctx)
	if err != nil {
		e.err = err
		e.state.Store(int32(StateFailed))
		logging.Error("tokenizer init failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return
	}

	e.ready.Store(l)
	e.state.Store(int32(StateReady))
	logging.Info("tokenizer %s ready in %s, vocab size %d",
		l.name, time.Since(start).Round(time.Millisecond), l.pipeline.VocabSize())
}

func (e *Engine) init(ctx context.Context) (*loaded, error) {
	if e.loader == nil {
		return nil, errors.New("no tokenizer loader configured")
	}

	tok, err := e.loader(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	if tok == nil {
		return nil, cipher.ErrTokenizerUnavailable
	}
	if tok.VocabSize() <= 0 {
		return nil, fmt.Errorf("tokenizer %s reports an empty vocabulary", tok.Name())
	}

	p, err := cipher.NewPipeline(tok, cipher.WithParallel(e.par))
	if err != nil {
		return nil, err
	}
	return &loaded{pipeline: p, name: tok.Name()}, nil
}

// Wait blocks until loading finishes or ctx is done. It returns the load
// error, if any.
func (e *Engine) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return e.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle stage.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Err returns the load failure, or nil.
func (e *Engine) Err() error {
	if e.State() != StateFailed {
		return nil
	}
	return e.err
}

// VocabSize returns the vocabulary size, or 0 while not ready.
func (e *Engine) VocabSize() int {
	if l := e.ready.Load(); l != nil {
		return l.pipeline.VocabSize()
	}
	return 0
}

// TokenizerName returns the loaded vocabulary name, or "" while not ready.
func (e *Engine) TokenizerName() string {
	if l := e.ready.Load(); l != nil {
		return l.name
	}
	return ""
}

// Transform runs one transform, or returns ErrNotReady.
func (e *Engine) Transform(text, seed string, mode cipher.Mode) (cipher.Result, error) {
	l := e.ready.Load()
	if l == nil {
		return cipher.Result{}, ErrNotReady
	}
	return l.pipeline.Transform(text, seed, mode)
}

// Run runs one transform. It reports false, producing no output, when the
// tokenizer is not ready or the transform failed; failures are logged.
func (e *Engine) Run(text, seed string, mode cipher.Mode) (cipher.Result, bool) {
	res, err := e.Transform(text, seed, mode)
	if err != nil {
		if !errors.Is(err, ErrNotReady) {
			logging.Error("transform (%s): %v", mode, err)
		}
		return cipher.Result{}, false
	}
	return res, true
}

// Check reports whether transforms can run. It is meant for readiness probes.
func (e *Engine) Check(_ context.Context) error {
	switch e.State() {
	case StateReady:
		return nil
	case StateFailed:
		return fmt.Errorf("%w: %v", ErrNotReady, e.err)
	default:
		return ErrNotReady
	}
}
