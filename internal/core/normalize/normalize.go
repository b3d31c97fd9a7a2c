// Package normalize provides the canonical text forms used for per-owner identity
// Normalize pipeline
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFD decomposition
// 3 Lowercase, locale independent
// 4 Remove combining marks and non-space controls
// 5 NFC recomposition
// 6 Collapse whitespace runs to a single ASCII space and trim
//
// Slugify runs a compatibility decomposition instead, strips marks, transliterates whatever
// is left to ASCII, then keeps only [a-z0-9] separated by single hyphens
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer is concurrency safe when used with the pools below
type Normalizer struct{}

var dropControls = runes.Remove(runes.Predicate(func(r rune) bool {
	return unicode.IsControl(r) && !unicode.IsSpace(r)
}))

// pool of fresh transformer chains; casers keep state so they are never shared
var textPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			cases.Lower(language.Und),
			norm.NFD, // lowering can emit precomposed runes again
			runes.Remove(runes.In(unicode.M)),
			dropControls,
			norm.NFC,
		)
	},
}

var slugPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.M)))
	},
}

var std = New()

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the identity form of s using the shared Normalizer
// ok is false when s has no content after normalization
func Normalize(s string) (string, bool) { return std.Normalize(s) }

// Slugify returns the URL-safe slug of s using the shared Normalizer
// ok is false when nothing slug-worthy remains
func Slugify(s string) (string, bool) { return std.Slugify(s) }

// Normalize returns the normalized form of s following the pipeline described above
func (n *Normalizer) Normalize(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	out := collapseSpaces(run(&textPool, strings.ToValidUTF8(s, "")))
	return out, out != ""
}

// Slugify returns lowercase ASCII words joined by single hyphens
// non Latin scripts are romanized, so "Москва" becomes "moskva" and "東京" becomes "dong-jing"
func (n *Normalizer) Slugify(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	folded := strings.ToLower(unidecode.Unidecode(run(&slugPool, strings.ToValidUTF8(s, ""))))

	var b strings.Builder
	b.Grow(len(folded))
	sep := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	out := b.String()
	return out, out != ""
}

func run(p *sync.Pool, s string) string {
	tr := p.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	p.Put(tr)
	if err != nil {
		return ""
	}
	return out
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims the edges
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
