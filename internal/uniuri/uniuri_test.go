package uniuri

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New()
	assert.Len(t, s, StdLen)

	for _, r := range s {
		assert.Contains(t, string(StdChars), string(r))
	}
}

func TestNewLen(t *testing.T) {
	for _, length := range []int{0, 1, 16, 48, 100} {
		assert.Len(t, NewLen(length), length)
	}
}

func TestNewLenChars(t *testing.T) {
	chars := []byte("ab")
	s := NewLenChars(64, chars)

	require.Len(t, s, 64)
	assert.Equal(t, "", strings.Trim(s, "ab"))
}

func TestNewLenChars_BadAlphabet(t *testing.T) {
	assert.Panics(t, func() {
		NewLenChars(8, []byte("x"))
	})
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)

	for range 100 {
		s := New()
		require.False(t, seen[s], "generated duplicate session id")
		seen[s] = true
	}
}
