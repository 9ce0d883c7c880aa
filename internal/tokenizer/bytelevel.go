package tokenizer

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// byteLevelPattern is the GPT-2 pre-tokenizer split. The trailing-whitespace
// lookahead needs regexp2.
const byteLevelPattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

var byteLevelSplit = regexp2.MustCompile(byteLevelPattern, regexp2.None)

// byteToRune maps every byte to the printable rune byte-level vocabularies
// use for it, e.g. ' ' -> 'Ġ'. runeToByte is its inverse.
var (
	byteToRune [256]rune
	runeToByte = make(map[rune]byte, 256)
)

func init() {
	n := 0
	for b := 0; b < 256; b++ {
		r := rune(b)
		printable := (b >= '!' && b <= '~') || (b >= 0xA1 && b <= 0xAC) || (b >= 0xAE && b <= 0xFF)
		if !printable {
			r = rune(256 + n)
			n++
		}
		byteToRune[b] = r
		runeToByte[r] = byte(b)
	}
}

// byteLevelPieces splits text the way GPT-2 style pre-tokenizers do.
func byteLevelPieces(text string) ([]string, error) {
	var pieces []string
	m, err := byteLevelSplit.FindStringMatch(text)
	for m != nil && err == nil {
		pieces = append(pieces, m.String())
		m, err = byteLevelSplit.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("byte-level split: %w", err)
	}
	return pieces, nil
}

// encodeBytes renders every byte of s as its byte-level rune.
func encodeBytes(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		sb.WriteRune(byteToRune[s[i]])
	}
	return sb.String()
}

// decodeBytes reverses encodeBytes. Runes outside the byte alphabet, such as
// those of added tokens, are kept as UTF-8.
func decodeBytes(s string) string {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := runeToByte[r]; ok {
			buf = append(buf, b)
		} else {
			buf = append(buf, string(r)...)
		}
	}
	return string(buf)
}
