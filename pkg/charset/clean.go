package charset

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	strutil "qrbill/pkg/platform/strings"
)

const fractionSlash = '⁄'

// Result is the outcome of cleaning a text value.
type Result struct {
	// Text is the cleaned value. An empty string means the value is absent.
	Text string
	// Replaced is set when at least one unsupported character was replaced.
	Replaced bool
}

// IsValidText reports whether every code point of text belongs to rep. It
// does not compose combining sequences, so decomposed accents fail the test.
func IsValidText(text string, rep Repertoire) bool {
	for _, r := range text {
		if !rep.Contains(r) {
			return false
		}
	}
	return true
}

// Cleaned returns text with unsupported characters replaced.
func Cleaned(text string, rep Repertoire) string {
	return Clean(text, rep, false).Text
}

// CleanedAndTrimmed returns text with unsupported characters replaced,
// surrounding whitespace removed and runs of spaces collapsed.
func CleanedAndTrimmed(text string, rep Repertoire) string {
	return Clean(text, rep, true).Text
}

// Clean maps text into rep.
//
// Characters are replaced by the same letter without its accent, by a
// transliteration of similar meaning, by a space for whitespace, or by a
// single "." for each run of characters with no replacement. Letters written
// as base letter plus combining mark are composed first so that they survive
// when their precomposed form is supported.
func Clean(text string, rep Repertoire, trimWhitespace bool) Result {
	var result Result
	if text == "" {
		return result
	}

	if !IsValidText(text, rep) {
		valid := false
		if !norm.NFC.IsNormalString(text) {
			text = norm.NFC.String(text)
			valid = IsValidText(text, rep)
		}
		if !valid {
			text = replaceCharacters(text, rep)
			result.Replaced = true
		}
	}

	if trimWhitespace {
		text = strutil.SpacesCleaned(text)
	}
	result.Text = text
	return result
}

func replaceCharacters(text string, rep Repertoire) string {
	var sb strings.Builder
	sb.Grow(len(text))

	inFallback := false
	for _, r := range text {
		switch {
		case rep.Contains(r):
			sb.WriteRune(r)
			inFallback = false
		case replaceRune(r, rep, &sb):
			inFallback = false
		case !inFallback:
			sb.WriteByte('.')
			inFallback = true
		}
	}
	return sb.String()
}

func replaceRune(r rune, rep Repertoire, sb *strings.Builder) bool {
	if unicode.IsSpace(r) {
		sb.WriteByte(' ')
		return true
	}

	if to, ok := quickReplacement(r); ok {
		sb.WriteRune(to)
		return true
	}

	if s, ok := decomposed(r, rep, norm.NFD); ok {
		sb.WriteString(s)
		return true
	}
	if s, ok := decomposed(r, rep, norm.NFKD); ok {
		sb.WriteString(s)
		return true
	}

	if s, ok := extraReplacements[r]; ok {
		sb.WriteString(s)
		return true
	}
	return false
}

// decomposed returns the decomposition of r under form if it is usable: every
// code point belongs to rep, or only a trailing combining diacritical mark
// does not (it is dropped). A fraction slash is accepted and rewritten as "/".
func decomposed(r rune, rep Repertoire, form norm.Form) (string, bool) {
	runes := []rune(form.String(string(r)))

	hasFractionSlash := false
	for i, c := range runes {
		if rep.Contains(c) {
			continue
		}
		if i == len(runes)-1 && isCombiningDiacriticalMark(c) {
			return string(runes[:i]), true
		}
		if c != fractionSlash {
			return "", false
		}
		hasFractionSlash = true
	}

	s := string(runes)
	if hasFractionSlash {
		s = strings.ReplaceAll(s, string(fractionSlash), "/")
	}
	return s, true
}

func isCombiningDiacriticalMark(r rune) bool {
	return r >= '\u0300' && r <= '\u036F'
}
