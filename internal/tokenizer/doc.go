// Package tokenizer provides the BPE tokenizers token rotation runs over.
//
// Two families are supported:
//   - tiktoken: OpenAI encodings (cl100k_base, p50k_base, r50k_base, o200k_base)
//     backed by github.com/pkoukk/tiktoken-go, optionally with vocabularies
//     embedded by github.com/pkoukk/tiktoken-go-loader so no download happens
//   - BPE: HuggingFace tokenizer.json files with a BPE model
//
// Every tokenizer reports VocabSize, the exclusive upper bound of the ids it
// produces. Rotation relies on every id in [0, VocabSize) being decodable.
//
// Example usage:
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
