package cipher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveShift(t *testing.T) {
	tests := []struct {
		name string
		seed string
		want int64
	}{
		{name: "positive literal", seed: "42", want: 42},
		{name: "negative literal", seed: "-7", want: -7},
		{name: "empty", seed: "", want: 0},
		{name: "whitespace only", seed: "  ", want: 0},
		{name: "tabs and newlines", seed: "\t\n", want: 0},
		{name: "literal with padding", seed: "  5 ", want: 5},
		{name: "zero padded literal", seed: "000000000042", want: 42},
		{name: "negative zero", seed: "-0", want: 0},
		{name: "passphrase", seed: "abc", want: 96354},
		{name: "two words", seed: "hello world", want: 1794106052},
		{name: "wraps to min int32", seed: "polygenelubricants", want: math.MinInt32},
		{name: "surrogate pair", seed: "🌍", want: 1773137},
		{name: "mixed scripts", seed: "Hello 世界", want: -727440348},
		{name: "leading plus is not a literal", seed: "+5", want: int64(StringHash("+5"))},
		{name: "inner space is not a literal", seed: "4 2", want: int64(StringHash("4 2"))},
		{name: "byte order mark trimmed", seed: "\uFEFF42", want: 42},
		{name: "unicode spaces trimmed", seed: "\u00A0abc\u3000", want: 96354},
		{name: "line separator trimmed", seed: "\u2028", want: 0},
		{name: "next line is not trimmed", seed: "\u0085abc", want: 4058557},
		{name: "overflowing literal saturates", seed: "99999999999999999999", want: math.MaxInt64},
		{name: "underflowing literal saturates", seed: "-99999999999999999999", want: math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveShift(tt.seed))
		})
	}
}

func TestParseShift_Kind(t *testing.T) {
	assert.Equal(t, Shift{Kind: ShiftNone}, ParseShift(" "))
	assert.Equal(t, Shift{Kind: ShiftLiteral, Value: -7}, ParseShift("-7"))
	assert.Equal(t, Shift{Kind: ShiftHashed, Value: 96354}, ParseShift(" abc "))
}

func TestShiftKind_String(t *testing.T) {
	assert.Equal(t, "none", ShiftNone.String())
	assert.Equal(t, "literal", ShiftLiteral.String())
	assert.Equal(t, "hashed", ShiftHashed.String())
	assert.Equal(t, "unknown", ShiftKind(99).String())
}

func TestStringHash_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, int32(1265856690), StringHash("hunter2"))
	}
	assert.Equal(t, int32(0), StringHash(""))
}
