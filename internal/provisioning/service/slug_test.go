package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"company name with ampersand", "Skogh & Co AB", "skoghcoab"},
		{"already clean", "acme", "acme"},
		{"mixed case", "AcmeAB", "acmeab"},
		{"digits kept", "Firma 123", "firma123"},
		{"swedish letters dropped", "Åkeri Öst", "kerist"},
		{"punctuation dropped", "a.b-c_d!", "abcd"},
		{"whitespace only", "   ", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeSlug(tc.in))
		})
	}
}

func TestNormalizeSlugCapsLength(t *testing.T) {
	long := strings.Repeat("abc", 40)
	got := NormalizeSlug(long)
	assert.Len(t, got, 50)
	assert.Equal(t, strings.Repeat("abc", 40)[:50], got)
}
