// Package cipher rotates BPE token ids by a seed-derived key.
//
// This package wraps the internal cipher and engine implementations and
// provides a clean public API.
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/tokcipher/cipher"
//	    "github.com/born-ml/tokcipher/tokenizer"
//	)
//
//	tok, err := tokenizer.NewTikToken("cl100k_base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := cipher.Transform("attack at dawn", "hunter2", cipher.Encrypt, tok)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Output, cipher.FormatTokens(res.OutputTokens))
//
// The rotation is not encryption in any cryptographic sense: the key space
// is the vocabulary size.
package cipher

import (
	"github.com/born-ml/tokcipher/internal/cipher"
	"github.com/born-ml/tokcipher/internal/engine"
)

// Mode selects the rotation direction.
type Mode = cipher.Mode

// Rotation directions.
const (
	Encrypt = cipher.Encrypt
	Decrypt = cipher.Decrypt
)

// Shift is a rotation key together with how it was derived.
type Shift = cipher.Shift

// ShiftKind records how a seed was turned into a shift.
type ShiftKind = cipher.ShiftKind

// Shift kinds.
const (
	ShiftNone    = cipher.ShiftNone
	ShiftLiteral = cipher.ShiftLiteral
	ShiftHashed  = cipher.ShiftHashed
)

// Codec is the part of a tokenizer the pipeline needs.
type Codec = cipher.Codec

// Result is the outcome of one transform.
type Result = cipher.Result

// Pipeline runs encode, rotate and decode against one tokenizer.
type Pipeline = cipher.Pipeline

// Engine loads a tokenizer in the background and runs transforms once it is ready.
type Engine = engine.Engine

// Loader produces the tokenizer for an Engine.
type Loader = engine.Loader

// Errors returned by transforms.
var (
	ErrTokenizerUnavailable = cipher.ErrTokenizerUnavailable
	ErrInvalidMode          = cipher.ErrInvalidMode
	ErrNotReady             = engine.ErrNotReady
)

// ParseMode parses "encrypt" or "decrypt".
func ParseMode(s string) (Mode, error) {
	return cipher.ParseMode(s)
}

// DeriveShift converts a seed into a signed shift key.
//
// Empty seeds give 0, integer literals are used as is, and anything else is
// hashed with the 31-multiplier string hash over UTF-16 code units.
func DeriveShift(seed string) int64 {
	return cipher.DeriveShift(seed)
}

// ParseShift is DeriveShift with the derivation path attached.
func ParseShift(seed string) Shift {
	return cipher.ParseShift(seed)
}

// Rotate shifts tokens forward by k within [0, vocabSize).
func Rotate(tokens []int, k int64, vocabSize int) []int {
	return cipher.Rotate(tokens, k, vocabSize)
}

// InverseRotate shifts tokens backward by k within [0, vocabSize).
func InverseRotate(tokens []int, k int64, vocabSize int) []int {
	return cipher.InverseRotate(tokens, k, vocabSize)
}

// Transform runs encode, rotate and decode once.
func Transform(text, seed string, mode Mode, codec Codec) (Result, error) {
	return cipher.Transform(text, seed, mode, codec)
}

// NewPipeline creates a reusable pipeline for codec.
func NewPipeline(codec Codec) (*Pipeline, error) {
	return cipher.NewPipeline(codec)
}

// NewEngine creates an engine that loads the tokenizer named by pathOrName
// (tiktoken encoding, model name or HuggingFace directory) once started.
func NewEngine(pathOrName string, offline bool) *Engine {
	return engine.New(engine.AutoLoader(pathOrName, offline))
}

// RandomSeed returns a fresh 12-digit zero-padded decimal seed.
func RandomSeed() string {
	return cipher.RandomSeed()
}

// FormatTokens renders ids as "15339, 12".
func FormatTokens(tokens []int) string {
	return cipher.FormatTokens(tokens)
}
