package cipher

import "github.com/born-ml/tokcipher/internal/parallel"

// Rotator shifts token ids within a fixed vocabulary.
//
// A vocabulary size of 0 means the id space is unknown; rotation is then the
// identity.
type Rotator struct {
	vocabSize int
	par       parallel.Config
}

// NewRotator creates a rotator for ids in [0, vocabSize).
func NewRotator(vocabSize int, cfg parallel.Config) Rotator {
	return Rotator{vocabSize: vocabSize, par: cfg}
}

// VocabSize returns the size of the id space.
func (r Rotator) VocabSize() int {
	return r.vocabSize
}

// Offset normalizes k into [0, VocabSize).
func (r Rotator) Offset(k int64) int {
	if r.vocabSize <= 0 {
		return 0
	}
	n := int64(r.vocabSize)
	return int(((k % n) + n) % n)
}

// Rotate maps every token t to (t + offset) mod VocabSize.
func (r Rotator) Rotate(tokens []int, k int64) []int {
	if len(tokens) == 0 {
		return []int{}
	}
	if r.vocabSize <= 0 {
		return append([]int(nil), tokens...)
	}

	n := r.vocabSize
	offset := r.Offset(k)
	return parallel.MapInts(tokens, r.par, func(t int) int {
		return (t + offset) % n
	})
}

// Inverse maps every token t to (t - offset + VocabSize) mod VocabSize,
// undoing Rotate for the same k.
func (r Rotator) Inverse(tokens []int, k int64) []int {
	if len(tokens) == 0 {
		return []int{}
	}
	if r.vocabSize <= 0 {
		return append([]int(nil), tokens...)
	}

	n := r.vocabSize
	offset := r.Offset(k)
	return parallel.MapInts(tokens, r.par, func(t int) int {
		return (t - offset + n) % n
	})
}

// Rotate shifts tokens forward by k within [0, vocabSize).
func Rotate(tokens []int, k int64, vocabSize int) []int {
	return NewRotator(vocabSize, parallel.Sequential()).Rotate(tokens, k)
}

// InverseRotate shifts tokens backward by k within [0, vocabSize).
func InverseRotate(tokens []int, k int64, vocabSize int) []int {
	return NewRotator(vocabSize, parallel.Sequential()).Inverse(tokens, k)
}
