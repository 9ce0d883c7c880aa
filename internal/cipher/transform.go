package cipher

import (
	"errors"
	"fmt"

	"github.com/born-ml/tokcipher/internal/parallel"
)

// ErrTokenizerUnavailable is returned when a transform runs without a tokenizer.
var ErrTokenizerUnavailable = errors.New("tokenizer unavailable")

// Codec is the part of a tokenizer the pipeline needs.
//
// Every id produced by Encode must lie in [0, VocabSize).
type Codec interface {
	// Encode converts text to token ids.
	Encode(text string) ([]int, error)

	// Decode converts token ids back to text.
	Decode(tokens []int) (string, error)

	// VocabSize returns the cardinality of the id space.
	VocabSize() int
}

// Result is the outcome of one transform.
type Result struct {
	// Output is the decoded text of the rotated ids.
	Output string

	// InputTokens are the ids of the source text.
	InputTokens []int

	// OutputTokens are the rotated ids.
	OutputTokens []int
}

// InputCount returns the number of tokens in the source text.
func (r Result) InputCount() int {
	return len(r.InputTokens)
}

// Pipeline runs encode, rotate and decode against one tokenizer.
type Pipeline struct {
	codec   Codec
	rotator Rotator
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	par parallel.Config
}

// WithParallel sets how long token sequences are split across goroutines.
func WithParallel(cfg parallel.Config) PipelineOption {
	return func(o *pipelineOptions) {
		o.par = cfg
	}
}

// NewPipeline creates a pipeline for the given tokenizer.
//
// The vocabulary size is read once here and stays fixed for the pipeline's
// lifetime.
func NewPipeline(codec Codec, opts ...PipelineOption) (*Pipeline, error) {
	if codec == nil {
		return nil, ErrTokenizerUnavailable
	}

	options := &pipelineOptions{
		par: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Pipeline{
		codec:   codec,
		rotator: NewRotator(codec.VocabSize(), options.par),
	}, nil
}

// VocabSize returns the vocabulary size the pipeline rotates within.
func (p *Pipeline) VocabSize() int {
	return p.rotator.VocabSize()
}

// Transform encodes text, rotates its ids in the direction given by mode
// using the shift derived from seed, and decodes the result.
//
// Empty text short-circuits to an empty Result without touching the tokenizer.
func (p *Pipeline) Transform(text, seed string, mode Mode) (Result, error) {
	if text == "" {
		return Result{InputTokens: []int{}, OutputTokens: []int{}}, nil
	}

	k := DeriveShift(seed)

	original, err := p.codec.Encode(text)
	if err != nil {
		return Result{}, fmt.Errorf("encode: %w", err)
	}

	var rotated []int
	switch mode {
	case Encrypt:
		rotated = p.rotator.Rotate(original, k)
	case Decrypt:
		rotated = p.rotator.Inverse(original, k)
	default:
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}

	output, err := p.codec.Decode(rotated)
	if err != nil {
		return Result{}, fmt.Errorf("decode: %w", err)
	}

	return Result{
		Output:       output,
		InputTokens:  original,
		OutputTokens: rotated,
	}, nil
}

// Transform runs a single transform with codec.
func Transform(text, seed string, mode Mode, codec Codec) (Result, error) {
	if codec == nil {
		return Result{}, ErrTokenizerUnavailable
	}
	p, err := NewPipeline(codec, WithParallel(parallel.Sequential()))
	if err != nil {
		return Result{}, err
	}
	return p.Transform(text, seed, mode)
}
