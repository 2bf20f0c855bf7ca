// Package casekey canonicalizes human-entered case/file numbers into lookup keys.
package casekey

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Separator joins the segments of a normalized key
const Separator = '/'

// maxPasses bounds the fixpoint loop in Normalize. Folding and width normalization
// settle after one pass for all real input; the extra passes cover composed sequences
// that only form once whitespace has been removed.
const maxPasses = 4

// Normalize returns the canonical key for raw. Whitespace is dropped, every run of
// separator punctuation becomes a single '/', full-width forms are folded to ASCII
// and letters are case folded. An empty result means "no case".
func Normalize(raw string) string {
	s := raw
	for i := 0; i < maxPasses; i++ {
		next := normalizeOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

// Same reports whether a and b refer to the same non-empty case
func Same(a, b string) bool {
	ka := Normalize(a)
	return ka != "" && ka == Normalize(b)
}

func normalizeOnce(raw string) string {
	s := norm.NFKC.String(raw)
	s = cases.Fold().String(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		switch {
		case r == utf8.RuneError:
			continue
		case unicode.IsSpace(r) || unicode.Is(unicode.Cf, r):
			continue
		case isSeparator(r):
			pendingSep = true
			continue
		case !unicode.IsPrint(r):
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteRune(Separator)
		}
		pendingSep = false
		b.WriteRune(r)
	}
	return b.String()
}

func isSeparator(r rune) bool {
	switch r {
	case '/', '\\', '-', '_', '.', ',', ':', ';', '|', '#':
		return true
	}
	return unicode.Is(unicode.Pd, r)
}
