// Package shortener turns ad links into short tracking links, either through
// the Short.io API or with locally generated slugs.
package shortener

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
)

// alphabet for slugs (62 characters: 0-9, a-z, A-Z)
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// SlugLength is the length of locally generated short ids.
const SlugLength = 8

// GenerateSecureSlug creates a cryptographically secure random Base62 slug.
func GenerateSecureSlug(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid slug length: %d", length)
	}

	// Rejection sampling to avoid modulo bias.
	// 248 is the largest multiple of 62 below 256.
	const maxRandomByte = 248

	slug := make([]byte, length)
	buf := make([]byte, length*2)
	written := 0

	for written < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read secure random bytes: %w", err)
		}

		for _, b := range buf {
			if b >= maxRandomByte {
				continue
			}
			slug[written] = alphabet[int(b)%len(alphabet)]
			written++
			if written == length {
				break
			}
		}
	}

	return string(slug), nil
}

// Local issues short links served by this application under /s/{id}.
type Local struct {
	BaseURL string
}

// NewLocal creates a local shortener. baseURL is the public origin, e.g.
// "https://fielmedina.com".
func NewLocal(baseURL string) *Local {
	return &Local{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Shorten ignores link; the redirect target is looked up by short id.
func (l *Local) Shorten(_ context.Context, _ string) (string, string, error) {
	id, err := GenerateSecureSlug(SlugLength)
	if err != nil {
		return "", "", err
	}
	return l.BaseURL + "/s/" + id, id, nil
}
