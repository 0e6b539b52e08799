package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLikelyURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?q=1", true},
		{"example.com", true},
		{"sub.example.co.uk/a/b#frag", true},
		{"my-site.io", true},
		{"hello world", false},
		{"abc", false},
		{"a.b", false},
		{"justtext", false},
		{"ftp://example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, IsLikelyURL(tc.in))
		})
	}
}

func TestEnsureHTTPS(t *testing.T) {
	assert.Equal(t, "https://example.com", EnsureHTTPS("example.com"))
	assert.Equal(t, "http://example.com", EnsureHTTPS("http://example.com"))
	assert.Equal(t, "https://example.com", EnsureHTTPS("https://example.com"))
	assert.Equal(t, "plain text", EnsureHTTPS("plain text"))
}

func TestNormalizeInput(t *testing.T) {
	t.Run("scheme-less URL gets https", func(t *testing.T) {
		got, isURL := NormalizeInput("  example.com/docs  ")
		assert.True(t, isURL)
		assert.Equal(t, "https://example.com/docs", got)
	})

	t.Run("text is only trimmed", func(t *testing.T) {
		got, isURL := NormalizeInput("  hello there ")
		assert.False(t, isURL)
		assert.Equal(t, "hello there", got)
	})

	t.Run("existing scheme is kept", func(t *testing.T) {
		got, isURL := NormalizeInput("http://example.com")
		assert.True(t, isURL)
		assert.Equal(t, "http://example.com", got)
	})
}
