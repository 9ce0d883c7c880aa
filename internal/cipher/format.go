package cipher

import (
	"strconv"
	"strings"
)

// FormatTokens renders ids as a comma separated list, e.g. "15339, 12".
func FormatTokens(tokens []int) string {
	if len(tokens) == 0 {
		return ""
	}
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, ", ")
}
