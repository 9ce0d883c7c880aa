package tokenizer

// Tokenizer is the core interface for text tokenization.
//
// All tokenizer implementations (tiktoken, BPE) must implement this interface.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int) (string, error)

	// VocabSize returns the exclusive upper bound of token IDs.
	VocabSize() int

	// Name identifies the vocabulary, e.g. "cl100k_base".
	Name() string
}
