package engine

import (
	"context"

	"github.com/born-ml/tokcipher/internal/tokenizer"
)

// AutoLoader returns a Loader for a tiktoken encoding, tiktoken model name
// or HuggingFace model directory.
//
// Loading itself cannot be interrupted; when ctx ends first the loader
// returns ctx.Err() and the late result is discarded.
func AutoLoader(pathOrName string, offline bool) Loader {
	return func(ctx context.Context) (tokenizer.Tokenizer, error) {
		var opts []tokenizer.TikTokenOption
		if offline {
			opts = append(opts, tokenizer.WithOfflineLoader())
		}

		type result struct {
			tok tokenizer.Tokenizer
			err error
		}
		ch := make(chan result, 1)
		go func() {
			tok, err := tokenizer.AutoLoad(pathOrName, opts...)
			ch <- result{tok, err}
		}()

		select {
		case r := <-ch:
			return r.tok, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Static returns a Loader that yields tok.
func Static(tok tokenizer.Tokenizer) Loader {
	return func(context.Context) (tokenizer.Tokenizer, error) {
		return tok, nil
	}
}
