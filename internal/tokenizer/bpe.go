package tokenizer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// replacementChar is emitted when decoding an id that has no vocabulary entry.
const replacementChar = "\uFFFD"

// BPETokenizer implements Byte-Pair Encoding over a HuggingFace-style
// vocabulary and merge list.
//
// Text is split into alternating runs of whitespace and non-whitespace, and
// merges are applied within each run, so decoding the ids of known
// characters reproduces the input exactly. Byte-level vocabularies (GPT-2,
// RoBERTa, Llama 3) instead split with the GPT-2 pattern and merge over the
// byte alphabet, so every input byte has a token.
type BPETokenizer struct {
	vocab     map[string]int // token -> ID
	reverse   map[int]string // ID -> token
	ranks     map[pair]int   // merge -> priority, lower first
	unkToken  int
	special   map[int]bool
	vocabSize int
	byteLevel bool
	name      string
}

type pair struct {
	first  string
	second string
}

// NewBPETokenizer creates a new BPE tokenizer from vocab and merges.
func NewBPETokenizer(vocab map[string]int, merges []pair) *BPETokenizer {
	b := &BPETokenizer{
		vocab:    make(map[string]int, len(vocab)),
		reverse:  make(map[int]string, len(vocab)),
		ranks:    make(map[pair]int, len(merges)),
		unkToken: -1,
		special:  make(map[int]bool),
		name:     "bpe",
	}
	for token, id := range vocab {
		b.addToken(token, id)
	}
	for i, m := range merges {
		if _, ok := b.ranks[m]; !ok {
			b.ranks[m] = i
		}
	}
	return b
}

func (b *BPETokenizer) addToken(token string, id int) {
	if id < 0 {
		return
	}
	b.vocab[token] = id
	b.reverse[id] = token
	if id+1 > b.vocabSize {
		b.vocabSize = id + 1
	}
}

// SetUnknownToken sets the id emitted for characters missing from the
// vocabulary. Negative values drop such characters instead.
func (b *BPETokenizer) SetUnknownToken(id int) {
	b.unkToken = id
	if id >= 0 {
		b.special[id] = true
	}
}

// Encode converts text to token IDs using BPE.
func (b *BPETokenizer) Encode(text string) ([]int, error) {
	var pieces []string
	if b.byteLevel {
		var err error
		if pieces, err = byteLevelPieces(text); err != nil {
			return nil, err
		}
	} else {
		pieces = splitPieces(text)
	}

	tokens := []int{}
	for _, piece := range pieces {
		if b.byteLevel {
			piece = encodeBytes(piece)
		}
		for _, sym := range b.merge(piece) {
			if id, ok := b.vocab[sym]; ok {
				tokens = append(tokens, id)
				continue
			}
			for _, r := range sym {
				if id, ok := b.vocab[string(r)]; ok {
					tokens = append(tokens, id)
				} else if b.unkToken >= 0 {
					tokens = append(tokens, b.unkToken)
				}
			}
		}
	}
	return tokens, nil
}

// merge applies the highest priority merge until none applies.
func (b *BPETokenizer) merge(piece string) []string {
	symbols := make([]string, 0, len(piece))
	for _, r := range piece {
		symbols = append(symbols, string(r))
	}

	for len(symbols) > 1 {
		bestIdx := -1
		bestRank := len(b.ranks) + 1
		for i := 0; i < len(symbols)-1; i++ {
			if rank := b.mergeRank(pair{symbols[i], symbols[i+1]}); rank < bestRank {
				bestIdx = i
				bestRank = rank
			}
		}
		if bestIdx == -1 {
			break
		}

		merged := symbols[bestIdx] + symbols[bestIdx+1]
		symbols = append(symbols[:bestIdx+1], symbols[bestIdx+2:]...)
		symbols[bestIdx] = merged
	}
	return symbols
}

// mergeRank returns the rank of a merge pair (lower is higher priority).
func (b *BPETokenizer) mergeRank(p pair) int {
	if rank, ok := b.ranks[p]; ok {
		return rank
	}
	return len(b.ranks) + 1
}

// splitPieces splits text into maximal runs of whitespace and non-whitespace.
func splitPieces(text string) []string {
	var pieces []string
	start := 0
	prevSpace := false
	for i, r := range text {
		space := unicode.IsSpace(r)
		if i > 0 && space != prevSpace {
			pieces = append(pieces, text[start:i])
			start = i
		}
		prevSpace = space
	}
	if start < len(text) {
		pieces = append(pieces, text[start:])
	}
	return pieces
}

// Decode converts token IDs back to text. IDs without a vocabulary entry
// decode to U+FFFD.
func (b *BPETokenizer) Decode(tokens []int) (string, error) {
	var sb strings.Builder
	for _, id := range tokens {
		if text, ok := b.reverse[id]; ok {
			sb.WriteString(text)
		} else {
			sb.WriteString(replacementChar)
		}
	}
	if b.byteLevel {
		return decodeBytes(sb.String()), nil
	}
	return sb.String(), nil
}

// VocabSize returns the highest token ID plus one.
func (b *BPETokenizer) VocabSize() int {
	return b.vocabSize
}

// Name returns the tokenizer name.
func (b *BPETokenizer) Name() string {
	return b.name
}

// UnkToken returns the unknown token ID, or -1 if none is set.
func (b *BPETokenizer) UnkToken() int {
	return b.unkToken
}

// ByteLevel reports whether the vocabulary is over the GPT-2 byte alphabet.
func (b *BPETokenizer) ByteLevel() bool {
	return b.byteLevel
}

// IsSpecialToken checks if a token ID is a special token.
func (b *BPETokenizer) IsSpecialToken(token int) bool {
	return b.special[token]
}

// HuggingFaceTokenizerConfig represents a subset of tokenizer.json structure.
type HuggingFaceTokenizerConfig struct {
	Model struct {
		Type     string          `json:"type"`
		Vocab    map[string]int  `json:"vocab"`
		Merges   json.RawMessage `json:"merges"`
		UnkToken *string         `json:"unk_token"`
	} `json:"model"`
	AddedTokens []struct {
		ID      int    `json:"id"`
		Content string `json:"content"`
		Special bool   `json:"special"`
	} `json:"added_tokens"`

	PreTokenizer *hfComponent `json:"pre_tokenizer"`
	Decoder      *hfComponent `json:"decoder"`
}

// hfComponent is a pre_tokenizer or decoder entry; Sequence types nest.
type hfComponent struct {
	Type          string        `json:"type"`
	PreTokenizers []hfComponent `json:"pretokenizers"`
	Decoders      []hfComponent `json:"decoders"`
}

func (c *hfComponent) has(typ string) bool {
	if c == nil {
		return false
	}
	if c.Type == typ {
		return true
	}
	for i := range c.PreTokenizers {
		if c.PreTokenizers[i].has(typ) {
			return true
		}
	}
	for i := range c.Decoders {
		if c.Decoders[i].has(typ) {
			return true
		}
	}
	return false
}

// parseMerges accepts both the "a b" string form and the ["a", "b"] pair form.
func parseMerges(raw json.RawMessage) ([]pair, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var merges []pair
	var asStrings []string
	if err := json.Unmarshal(raw, &asStrings); err == nil {
		for _, m := range asStrings {
			parts := strings.Split(m, " ")
			if len(parts) == 2 {
				merges = append(merges, pair{parts[0], parts[1]})
			}
		}
		return merges, nil
	}

	var asPairs [][]string
	if err := json.Unmarshal(raw, &asPairs); err != nil {
		return nil, fmt.Errorf("failed to parse merges: %w", err)
	}
	for _, p := range asPairs {
		if len(p) == 2 {
			merges = append(merges, pair{p[0], p[1]})
		}
	}
	return merges, nil
}

// LoadBPEFromHuggingFace loads a BPE tokenizer from tokenizer.json.
func LoadBPEFromHuggingFace(path string) (*BPETokenizer, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path comes from trusted caller
	if err != nil {
		return nil, fmt.Errorf("failed to read tokenizer.json: %w", err)
	}

	var config HuggingFaceTokenizerConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse tokenizer.json: %w", err)
	}
	if len(config.Model.Vocab) == 0 {
		return nil, fmt.Errorf("tokenizer.json %s has an empty vocabulary", path)
	}

	merges, err := parseMerges(config.Model.Merges)
	if err != nil {
		return nil, err
	}

	tok := NewBPETokenizer(config.Model.Vocab, merges)
	tok.name = "huggingface-bpe"
	tok.byteLevel = config.PreTokenizer.has("ByteLevel") || config.Decoder.has("ByteLevel")

	for _, added := range config.AddedTokens {
		tok.addToken(added.Content, added.ID)
		if added.Special {
			tok.special[added.ID] = true
		}
	}

	if config.Model.UnkToken != nil {
		if id, ok := tok.vocab[*config.Model.UnkToken]; ok {
			tok.SetUnknownToken(id)
		}
	}

	return tok, nil
}

// ExampleBPEVocab creates a minimal BPE tokenizer for testing.
func ExampleBPEVocab() *BPETokenizer {
	vocab := map[string]int{
		"h":   0,
		"e":   1,
		"l":   2,
		"o":   3,
		"w":   4,
		"r":   5,
		"d":   6,
		" ":   7,
		"he":  8,
		"ll":  9,
		"wo":  10,
		"ld":  11,
		"wor": 12,
	}

	merges := []pair{
		{"h", "e"},
		{"l", "l"},
		{"w", "o"},
		{"wo", "r"},
		{"l", "d"},
	}

	return NewBPETokenizer(vocab, merges)
}
