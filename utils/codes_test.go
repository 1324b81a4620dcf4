package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		code, err := GenerateOTP(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "code %q contains non-digit %q", code, c)
		}
	}
}

func TestGenerateReferenceCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := GenerateReferenceCode()
		assert.True(t, strings.HasPrefix(ref, "MB-"), "reference %q", ref)
		assert.Len(t, ref, 11)
		assert.Equal(t, strings.ToUpper(ref), ref)
		assert.False(t, seen[ref], "duplicate reference %q", ref)
		seen[ref] = true
	}
}
