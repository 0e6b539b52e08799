package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksSensitive(t *testing.T) {
	flagged := []string{
		"bank",
		"My PASSPORT number",
		"card 4111 1111 1111 1111",
		"someone@example.org",
		"API_KEY=abc",
		"Мой пароль 1234",
		"логин: admin",
		"IBAN DE89 3704",
		"snils 123-456",
	}
	for _, s := range flagged {
		assert.True(t, LooksSensitive(s), s)
	}

	clean := []string{
		"https://example.com",
		"hello world",
		"Meet at noon",
	}
	for _, s := range clean {
		assert.False(t, LooksSensitive(s), s)
	}
}

func TestSensitiveTerms(t *testing.T) {
	assert.Nil(t, SensitiveTerms("nothing here"))
	assert.Equal(t, []string{"email", "@"}, SensitiveTerms("Email: a@b.c, also a@d.e"))
	assert.Equal(t, []string{"token", "secret"}, SensitiveTerms("TOKEN secret token"))
}
