package tokenizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// HFTokenizerType identifies the tokenizer implementation type.
type HFTokenizerType string

const (
	// HFTypeBPE indicates Byte-Pair Encoding tokenizer.
	HFTypeBPE HFTokenizerType = "BPE"

	// HFTypeWordPiece indicates WordPiece tokenizer (BERT-style).
	HFTypeWordPiece HFTokenizerType = "WordPiece"

	// HFTypeUnigram indicates Unigram tokenizer (SentencePiece-style).
	HFTypeUnigram HFTokenizerType = "Unigram"

	// HFTypeUnknown indicates an unknown or unsupported tokenizer type.
	HFTypeUnknown HFTokenizerType = "Unknown"
)

// ErrUnsupportedModel is returned for tokenizer.json models other than BPE.
// Rotation needs a byte-pair vocabulary.
var ErrUnsupportedModel = errors.New("unsupported tokenizer model")

// HFTokenizerMetadata describes a tokenizer.json file.
type HFTokenizerMetadata struct {
	Type          HFTokenizerType
	TokenizerType string
	VocabSize     int
	AddedTokens   int
}

// DetectHFTokenizerType reads the model type and vocabulary size from tokenizer.json.
func DetectHFTokenizerType(path string) (*HFTokenizerMetadata, error) {
	//nolint:gosec // Loading tokenizer from user-specified path is intentional.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokenizer.json: %w", err)
	}

	var raw struct {
		Model struct {
			Type  string          `json:"type"`
			Vocab json.RawMessage `json:"vocab"`
		} `json:"model"`
		AddedTokens []json.RawMessage `json:"added_tokens"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse tokenizer.json: %w", err)
	}

	metadata := &HFTokenizerMetadata{
		Type:          HFTypeUnknown,
		TokenizerType: raw.Model.Type,
		AddedTokens:   len(raw.AddedTokens),
	}

	switch raw.Model.Type {
	case "BPE":
		metadata.Type = HFTypeBPE
	case "WordPiece":
		metadata.Type = HFTypeWordPiece
	case "Unigram":
		metadata.Type = HFTypeUnigram
	}

	// BPE and WordPiece store a map, Unigram a list of [piece, score] pairs.
	var vocabMap map[string]json.RawMessage
	var vocabList []json.RawMessage
	switch {
	case json.Unmarshal(raw.Model.Vocab, &vocabMap) == nil:
		metadata.VocabSize = len(vocabMap)
	case json.Unmarshal(raw.Model.Vocab, &vocabList) == nil:
		metadata.VocabSize = len(vocabList)
	}

	return metadata, nil
}

// LoadFromHuggingFace loads a BPE tokenizer from a HuggingFace model directory
// containing tokenizer.json.
func LoadFromHuggingFace(modelPath string) (Tokenizer, error) {
	tokenizerPath := filepath.Join(modelPath, "tokenizer.json")

	metadata, err := DetectHFTokenizerType(tokenizerPath)
	if err != nil {
		return nil, err
	}

	if metadata.Type != HFTypeBPE {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, metadata.TokenizerType)
	}
	tok, err := LoadBPEFromHuggingFace(tokenizerPath)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// AutoLoad attempts to load the tokenizer named by pathOrName.
//
// It tries, in order:
//  1. a HuggingFace model directory containing tokenizer.json
//  2. a tiktoken model name, e.g. "gpt-4"
//  3. a tiktoken encoding name, e.g. "cl100k_base"
func AutoLoad(pathOrName string, opts ...TikTokenOption) (Tokenizer, error) {
	if info, err := os.Stat(pathOrName); err == nil && info.IsDir() {
		return LoadFromHuggingFace(pathOrName)
	}

	encodingName, ok := EncodingForModel(pathOrName)
	if !ok {
		if _, known := encodingVocab[pathOrName]; known {
			encodingName, ok = pathOrName, true
		}
	}
	if ok {
		tok, err := NewTikToken(encodingName, opts...)
		if err != nil {
			return nil, err
		}
		return tok, nil
	}

	return nil, fmt.Errorf("failed to auto-load tokenizer from %q", pathOrName)
}
