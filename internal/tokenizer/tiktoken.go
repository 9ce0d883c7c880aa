package tokenizer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const (
	// EncodingCL100kBase is the encoding used by GPT-4 and GPT-3.5-turbo.
	EncodingCL100kBase = "cl100k_base"
	// EncodingP50kBase is the encoding used by Codex and text-davinci-002/003.
	EncodingP50kBase = "p50k_base"
	// EncodingR50kBase is the encoding used by the original GPT-3 models.
	EncodingR50kBase = "r50k_base"
	// EncodingO200kBase is the encoding used by GPT-4o.
	EncodingO200kBase = "o200k_base"
)

// encodingVocab holds the id space rotation runs over for each encoding.
// Only ordinary ranks are counted, so for cl100k_base, r50k_base and
// o200k_base rotated ids never land on special tokens. p50k_base is the
// exception: its ordinary ranks run past <|endoftext|> (50256), so that id
// stays inside the space and decodes to the literal text "<|endoftext|>",
// which re-encodes as ordinary tokens.
var encodingVocab = map[string]int{
	EncodingCL100kBase: 100256,
	EncodingP50kBase:   50281,
	EncodingR50kBase:   50256,
	EncodingO200kBase:  199998,
}

// modelEncodings maps model names (or name prefixes ending in "-") to encodings.
var modelEncodings = []struct {
	prefix   string
	encoding string
}{
	{"gpt-4o", EncodingO200kBase},
	{"gpt-4", EncodingCL100kBase},
	{"gpt-3.5-turbo", EncodingCL100kBase},
	{"text-embedding-ada-002", EncodingCL100kBase},
	{"text-embedding-3-", EncodingCL100kBase},
	{"text-davinci-003", EncodingP50kBase},
	{"text-davinci-002", EncodingP50kBase},
	{"code-davinci-", EncodingP50kBase},
	{"gpt-3", EncodingP50kBase},
	{"davinci", EncodingR50kBase},
	{"curie", EncodingR50kBase},
	{"babbage", EncodingR50kBase},
	{"ada", EncodingR50kBase},
}

// loaderMu guards the process-wide BPE loader of tiktoken-go.
var loaderMu sync.Mutex

// TikToken wraps the pkoukk/tiktoken-go library for OpenAI tokenizers.
type TikToken struct {
	encoding  *tiktoken.Tiktoken
	name      string
	vocabSize int
}

// TikTokenOption configures how an encoding is loaded.
type TikTokenOption func(*tiktokenOptions)

type tiktokenOptions struct {
	offline bool
}

// WithOfflineLoader loads vocabularies embedded in the binary instead of
// downloading them on first use.
//
// The loader is installed process-wide and stays active for later loads.
func WithOfflineLoader() TikTokenOption {
	return func(o *tiktokenOptions) {
		o.offline = true
	}
}

// NewTikToken creates a tokenizer for a tiktoken encoding name.
//
// Supported encodings: "cl100k_base", "p50k_base", "r50k_base", "o200k_base".
func NewTikToken(encodingName string, opts ...TikTokenOption) (*TikToken, error) {
	vocabSize, ok := encodingVocab[encodingName]
	if !ok {
		return nil, fmt.Errorf("unsupported tiktoken encoding %q", encodingName)
	}

	options := &tiktokenOptions{}
	for _, opt := range opts {
		opt(options)
	}

	loaderMu.Lock()
	defer loaderMu.Unlock()

	if options.offline {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	}

	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{
		encoding:  encoding,
		name:      encodingName,
		vocabSize: vocabSize,
	}, nil
}

// NewTikTokenForModel creates a tokenizer for the encoding a model uses.
//
// Example models: "gpt-4", "gpt-3.5-turbo", "text-embedding-ada-002".
func NewTikTokenForModel(modelName string, opts ...TikTokenOption) (*TikToken, error) {
	encodingName, ok := EncodingForModel(modelName)
	if !ok {
		return nil, fmt.Errorf("no tiktoken encoding known for model %q", modelName)
	}
	return NewTikToken(encodingName, opts...)
}

// EncodingForModel resolves the encoding name for a model.
func EncodingForModel(modelName string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(modelName))
	for _, m := range modelEncodings {
		if matchesModel(name, m.prefix) {
			return m.encoding, true
		}
	}
	return "", false
}

// matchesModel reports whether name is prefix itself or a dated/variant
// name derived from it, such as "gpt-4-0613" for "gpt-4".
func matchesModel(name, prefix string) bool {
	if name == prefix {
		return true
	}
	if strings.HasSuffix(prefix, "-") {
		return strings.HasPrefix(name, prefix)
	}
	return strings.HasPrefix(name, prefix+"-")
}

// Encode converts text to token IDs.
//
// Special-token markers in text are encoded as ordinary text.
func (t *TikToken) Encode(text string) ([]int, error) {
	if text == "" {
		return []int{}, nil
	}
	return t.encoding.Encode(text, nil, nil), nil
}

// Decode converts token IDs back to text.
//
// The result holds the raw bytes of the tokens, which need not be valid UTF-8
// for rotated id sequences.
func (t *TikToken) Decode(tokens []int) (string, error) {
	if len(tokens) == 0 {
		return "", nil
	}
	return t.encoding.Decode(tokens), nil
}

// VocabSize returns the size of the ordinary id space of the encoding.
func (t *TikToken) VocabSize() int {
	return t.vocabSize
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}
