package service

import "strings"

const maxSlugLength = 50

// NormalizeSlug reduces a display name to a provider-legal site identifier:
// lowercase alphanumerics only, capped at 50 characters. An empty result is a
// hard precondition failure for callers, never something to retry.
func NormalizeSlug(name string) string {
	var b strings.Builder
	for _, r := range name {
		if b.Len() >= maxSlugLength {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}
