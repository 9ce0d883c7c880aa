package cipher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTokens(t *testing.T) {
	assert.Equal(t, "", FormatTokens(nil))
	assert.Equal(t, "7", FormatTokens([]int{7}))
	assert.Equal(t, "15344, 17", FormatTokens([]int{15344, 17}))
}
