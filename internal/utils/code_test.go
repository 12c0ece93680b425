package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateEventCode(t *testing.T) {
	t.Run("Length", func(t *testing.T) {
		for _, length := range []int{6, 8, 12} {
			code, err := GenerateEventCode(length)
			assert.NoError(t, err)
			assert.Len(t, code, length)
		}
	})

	t.Run("Charset Excludes Ambiguous Characters", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			code, err := GenerateEventCode(8)
			assert.NoError(t, err)
			for _, c := range code {
				assert.True(t, strings.ContainsRune(codeCharset, c), "unexpected character %q in %s", c, code)
			}
			assert.NotContains(t, code, "0")
			assert.NotContains(t, code, "O")
			assert.NotContains(t, code, "1")
			assert.NotContains(t, code, "I")
			assert.NotContains(t, code, "L")
		}
	})

	t.Run("Codes Differ", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			code, err := GenerateEventCode(8)
			assert.NoError(t, err)
			assert.False(t, seen[code], "duplicate code %s", code)
			seen[code] = true
		}
	})
}
