package cipher

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var twelveDigits = regexp.MustCompile(`^\d{12}$`)

func TestRandomSeed_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		seed := RandomSeed()
		assert.Regexp(t, twelveDigits, seed)
		assert.Equal(t, ShiftLiteral, ParseShift(seed).Kind)
	}
}

func TestSeedSource_Deterministic(t *testing.T) {
	a := NewSeedSource(rand.New(rand.NewSource(42)))
	b := NewSeedSource(rand.New(rand.NewSource(42)))

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestSeedSource_ZeroPadded(t *testing.T) {
	// Small draws must still be 12 characters wide.
	src := NewSeedSource(rand.New(rand.NewSource(1)))
	for i := 0; i < 1000; i++ {
		assert.Len(t, src.Next(), 12)
	}
}
