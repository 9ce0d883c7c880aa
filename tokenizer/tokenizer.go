// Package tokenizer provides the BPE tokenizers used by tokcipher.
//
// This package wraps the internal tokenizer implementations and provides
// a clean public API.
//
// Supported tokenizers:
//   - TikToken: OpenAI BPE encodings (cl100k_base, p50k_base, r50k_base, o200k_base)
//   - BPE: Byte-Pair Encoding from HuggingFace tokenizer.json
//
// Example usage:
//
//	import "github.com/born-ml/tokcipher/tokenizer"
//
//	tok, err := tokenizer.NewTikToken("cl100k_base", tokenizer.WithOfflineLoader())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ids, err := tok.Encode("Hello, world!")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := tok.Decode(ids)
package tokenizer

import (
	"github.com/born-ml/tokcipher/internal/tokenizer"
)

// Tokenizer is the core interface for text tokenization.
type Tokenizer = tokenizer.Tokenizer

// TikTokenOption configures how a tiktoken encoding is loaded.
type TikTokenOption = tokenizer.TikTokenOption

// Encoding names accepted by NewTikToken.
const (
	CL100kBase = tokenizer.EncodingCL100kBase
	P50kBase   = tokenizer.EncodingP50kBase
	R50kBase   = tokenizer.EncodingR50kBase
	O200kBase  = tokenizer.EncodingO200kBase
)

// WithOfflineLoader loads vocabularies embedded in the binary instead of
// downloading them on first use.
func WithOfflineLoader() TikTokenOption {
	return tokenizer.WithOfflineLoader()
}

// NewTikToken creates a new TikToken tokenizer with the specified encoding.
//
// Supported encodings: "cl100k_base" (GPT-4), "p50k_base", "r50k_base", "o200k_base".
func NewTikToken(encodingName string, opts ...TikTokenOption) (Tokenizer, error) {
	tok, err := tokenizer.NewTikToken(encodingName, opts...)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// NewTikTokenForModel creates a TikToken tokenizer for a specific model.
//
// Example models: "gpt-4", "gpt-3.5-turbo", "text-embedding-ada-002".
func NewTikTokenForModel(modelName string, opts ...TikTokenOption) (Tokenizer, error) {
	tok, err := tokenizer.NewTikTokenForModel(modelName, opts...)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// LoadFromHuggingFace loads a BPE tokenizer from a HuggingFace model directory.
//
// The directory should contain tokenizer.json.
func LoadFromHuggingFace(modelPath string) (Tokenizer, error) {
	return tokenizer.LoadFromHuggingFace(modelPath)
}

// AutoLoad attempts to automatically load the correct tokenizer.
//
// It tries multiple strategies:
//  1. Load from HuggingFace model directory (tokenizer.json)
//  2. Load tiktoken by model name
//  3. Load tiktoken by encoding name
func AutoLoad(pathOrName string, opts ...TikTokenOption) (Tokenizer, error) {
	return tokenizer.AutoLoad(pathOrName, opts...)
}

// ExampleBPE creates a minimal BPE tokenizer for testing and examples.
func ExampleBPE() Tokenizer {
	return tokenizer.ExampleBPEVocab()
}
