package cipher

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// ShiftKind records how a seed was turned into a shift.
type ShiftKind int

const (
	// ShiftNone means the seed was empty or whitespace only.
	ShiftNone ShiftKind = iota

	// ShiftLiteral means the seed was a base-10 integer literal.
	ShiftLiteral

	// ShiftHashed means the seed was hashed with the 31-multiplier string hash.
	ShiftHashed
)

// String returns the kind name.
func (k ShiftKind) String() string {
	switch k {
	case ShiftNone:
		return "none"
	case ShiftLiteral:
		return "literal"
	case ShiftHashed:
		return "hashed"
	default:
		return "unknown"
	}
}

// Shift is a rotation key together with how it was derived.
//
// Value is never reduced modulo the vocabulary size; that happens at the
// point of use.
type Shift struct {
	Kind  ShiftKind
	Value int64
}

var integerLiteral = regexp.MustCompile(`^-?\d+$`)

// ParseShift derives a tagged shift from a seed string.
func ParseShift(seed string) Shift {
	trimmed := strings.TrimFunc(seed, isSeedSpace)
	if trimmed == "" {
		return Shift{Kind: ShiftNone}
	}

	if integerLiteral.MatchString(trimmed) {
		// On overflow ParseInt returns the saturated bound alongside ErrRange.
		v, _ := strconv.ParseInt(trimmed, 10, 64)
		return Shift{Kind: ShiftLiteral, Value: v}
	}

	return Shift{Kind: ShiftHashed, Value: int64(StringHash(trimmed))}
}

// DeriveShift converts a seed into a signed shift key.
//
// Empty and whitespace-only seeds yield 0, integer literals are used as is,
// and anything else is hashed with StringHash.
func DeriveShift(seed string) int64 {
	return ParseShift(seed).Value
}

// StringHash computes the classic h = h*31 + c string hash over UTF-16 code
// units with signed 32-bit wraparound.
//
// Characters outside the Basic Multilingual Plane contribute both surrogate
// halves, so the result matches runtimes that store strings as UTF-16.
func StringHash(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	return h
}

// isSeedSpace reports characters trimmed from seeds: Unicode white space
// except NEL (U+0085), plus the byte order mark.
func isSeedSpace(r rune) bool {
	return (unicode.IsSpace(r) && r != '\u0085') || r == '\uFEFF'
}
