package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tokcipher/internal/cipher"
	"github.com/born-ml/tokcipher/internal/parallel"
	"github.com/born-ml/tokcipher/internal/tokenizer"
)

// byteTokenizer maps every byte to its own id.
type byteTokenizer struct {
	size int
}

func (b byteTokenizer) Encode(text string) ([]int, error) {
	ids := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		ids[i] = int(text[i])
	}
	return ids, nil
}

func (b byteTokenizer) Decode(tokens []int) (string, error) {
	buf := make([]byte, len(tokens))
	for i, t := range tokens {
		buf[i] = byte(t)
	}
	return string(buf), nil
}

func (b byteTokenizer) VocabSize() int { return b.size }
func (b byteTokenizer) Name() string   { return "bytes" }

func waitReady(t *testing.T, e *Engine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Wait(ctx))
}

func TestEngine_Ready(t *testing.T) {
	e := New(Static(byteTokenizer{size: 256}), WithParallel(parallel.Sequential()))
	e.Start(context.Background())
	waitReady(t, e)

	assert.Equal(t, StateReady, e.State())
	assert.NoError(t, e.Err())
	assert.NoError(t, e.Check(context.Background()))
	assert.Equal(t, 256, e.VocabSize())
	assert.Equal(t, "bytes", e.TokenizerName())

	enc, ok := e.Run("hello", "42", cipher.Encrypt)
	require.True(t, ok)
	assert.Equal(t, 5, enc.InputCount())

	dec, ok := e.Run(enc.Output, "42", cipher.Decrypt)
	require.True(t, ok)
	assert.Equal(t, "hello", dec.Output)
}

func TestEngine_EmptyText(t *testing.T) {
	e := New(Static(byteTokenizer{size: 256}))
	e.Start(context.Background())
	waitReady(t, e)

	res, ok := e.Run("", "seed", cipher.Encrypt)
	require.True(t, ok)
	assert.Equal(t, "", res.Output)
	assert.Empty(t, res.InputTokens)
	assert.Empty(t, res.OutputTokens)
}

func TestEngine_PendingIsNoop(t *testing.T) {
	release := make(chan struct{})
	e := New(func(ctx context.Context) (tokenizer.Tokenizer, error) {
		<-release
		return byteTokenizer{size: 256}, nil
	})

	res, ok := e.Run("hello", "1", cipher.Encrypt)
	assert.False(t, ok, "not started")
	assert.Equal(t, cipher.Result{}, res)

	e.Start(context.Background())
	assert.Equal(t, StatePending, e.State())
	assert.Equal(t, 0, e.VocabSize())
	assert.Equal(t, "", e.TokenizerName())
	assert.ErrorIs(t, e.Check(context.Background()), ErrNotReady)

	_, ok = e.Run("hello", "1", cipher.Encrypt)
	assert.False(t, ok, "still loading")

	_, err := e.Transform("hello", "1", cipher.Encrypt)
	assert.ErrorIs(t, err, ErrNotReady)

	close(release)
	waitReady(t, e)

	_, ok = e.Run("hello", "1", cipher.Encrypt)
	assert.True(t, ok)
}

func TestEngine_FailureIsRecordedNotRetried(t *testing.T) {
	boom := errors.New("vocabulary unavailable")
	var calls atomic.Int32
	e := New(func(context.Context) (tokenizer.Tokenizer, error) {
		calls.Add(1)
		return nil, boom
	})

	e.Start(context.Background())
	e.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := e.Wait(ctx)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, StateFailed, e.State())
	assert.ErrorIs(t, e.Err(), boom)
	assert.ErrorIs(t, e.Check(context.Background()), ErrNotReady)

	_, ok := e.Run("hello", "1", cipher.Encrypt)
	assert.False(t, ok)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEngine_InitTimeout(t *testing.T) {
	e := New(func(ctx context.Context) (tokenizer.Tokenizer, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, WithInitTimeout(10*time.Millisecond))

	e.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.ErrorIs(t, e.Wait(ctx), context.DeadlineExceeded)
	assert.Equal(t, StateFailed, e.State())
}

func TestEngine_RejectsBadTokenizers(t *testing.T) {
	tests := []struct {
		name   string
		loader Loader
	}{
		{name: "nil loader", loader: nil},
		{name: "nil tokenizer", loader: Static(nil)},
		{name: "empty vocabulary", loader: Static(byteTokenizer{size: 0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.loader)
			e.Start(context.Background())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.Error(t, e.Wait(ctx))
			assert.Equal(t, StateFailed, e.State())
		})
	}
}

func TestEngine_WaitHonorsContext(t *testing.T) {
	e := New(func(ctx context.Context) (tokenizer.Tokenizer, error) {
		select {}
	})
	e.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Wait(ctx), context.DeadlineExceeded)
	assert.Equal(t, StatePending, e.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestAutoLoader_UnknownName(t *testing.T) {
	tok, err := AutoLoader("no-such-vocabulary", true)(context.Background())
	assert.Error(t, err)
	assert.Nil(t, tok)
}

func TestAutoLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AutoLoader("no-such-vocabulary", true)(ctx)
	// Either the load error or the cancellation wins the race.
	assert.Error(t, err)
}

func TestEngine_CL100k(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the cl100k_base vocabulary")
	}

	e := New(AutoLoader(tokenizer.EncodingCL100kBase, true))
	e.Start(context.Background())
	waitReady(t, e)
	assert.Equal(t, 100256, e.VocabSize())

	text := "Token rotation is reversible."
	enc, ok := e.Run(text, "000000000005", cipher.Encrypt)
	require.True(t, ok)
	for i, id := range enc.InputTokens {
		assert.Equal(t, (id+5)%100256, enc.OutputTokens[i])
	}

	back := cipher.InverseRotate(enc.OutputTokens, 5, e.VocabSize())
	assert.Equal(t, enc.InputTokens, back)
}
