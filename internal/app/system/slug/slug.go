// Package slug builds URL-safe organization slugs.
package slug

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is used when a name has no slug-able characters.
const Fallback = "org"

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaces     = regexp.MustCompile(`\s+`)
	hyphens    = regexp.MustCompile(`-+`)
)

// Slugify lowercases s, strips diacritics, drops anything outside
// [a-z0-9 -], joins words with single hyphens and trims hyphens at the ends.
// It is idempotent.
func Slugify(s string) string {
	s = strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), runes.Map(asciiSpace), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = disallowed.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = spaces.ReplaceAllString(s, "-")
	s = hyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// asciiSpace maps Unicode whitespace and the BOM to ' ' so words
// stay separated.
func asciiSpace(r rune) rune {
	if r == '\uFEFF' || unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Generator produces unique slugs. Now is overridable in tests.
type Generator struct {
	Exists ExistsFunc
	Now    func() time.Time
	// MaxAttempts bounds the collision loop; zero means 5.
	MaxAttempts int
}

// Suffix returns the base-36 millisecond timestamp appended on collision.
func Suffix(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 36)
}

// Unique returns Slugify(name), or that slug suffixed with "-" and a base-36
// timestamp when it is already taken.
func (g Generator) Unique(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = Fallback
	}
	now := g.Now
	if now == nil {
		now = time.Now
	}
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = 5
	}

	candidate := base
	for i := 0; i < attempts; i++ {
		taken, err := g.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + Suffix(now())
		if i > 0 {
			candidate += "-" + strconv.Itoa(i)
		}
	}
	return "", ErrExhausted
}
