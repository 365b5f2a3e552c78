// Package moderation censors forbidden words in message content before
// persistence, so stored history and broadcast payloads never diverge.
package moderation

import (
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

// Filter matches normalized message content against an Aho-Corasick
// automaton of censored words and masks the matched spans in the
// original text, preserving spacing and untouched characters.
type Filter struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// mapping ties every normalized rune back to its index in the original
// text, so a match on the normalized form can be masked in place.
type mapping struct {
	normalized []rune
	originIdx  []int
}

// NewFilter builds the automaton from the word list. Words are
// normalized the same way as message content, so "l33t" spellings of a
// censored word still match.
func NewFilter(words []string, replacement rune) (*Filter, error) {
	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = normalizeRunes([]rune(word))
	}
	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Filter{matcher: machine, replacement: replacement}, nil
}

// Censor masks every censored word in content and reports the matched
// words plus the detected language (ISO 639-1, for logging only).
func (f *Filter) Censor(content string) (string, []string, string) {
	lang := whatlanggo.Detect(content).Lang.Iso6391()

	m := f.normalize(content)
	if len(m.normalized) == 0 {
		return content, nil, lang
	}

	spans := f.matcher.MultiPatternSearch(m.normalized, false)
	if len(spans) == 0 {
		return content, nil, lang
	}

	originRunes := []rune(content)
	var found []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(m.originIdx) {
			continue
		}
		found = append(found, string(span.Word))

		originStart := m.originIdx[start]
		originEnd := m.originIdx[end-1] + 1
		for i := originStart; i < originEnd; i++ {
			originRunes[i] = f.replacement
		}
	}
	return string(originRunes), found, lang
}

func (f *Filter) normalize(content string) mapping {
	originRunes := []rune(content)
	m := mapping{
		normalized: make([]rune, 0, len(originRunes)),
		originIdx:  make([]int, 0, len(originRunes)),
	}
	for i, r := range originRunes {
		plain := unleet(r)
		if isNoise(plain) {
			continue
		}
		m.normalized = append(m.normalized, unicode.ToLower(plain))
		m.originIdx = append(m.originIdx, i)
	}
	return m
}

func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		plain := unleet(r)
		if isNoise(plain) {
			continue
		}
		out = append(out, unicode.ToLower(plain))
	}
	return out
}

// unleet maps common leet-speak characters back to their alphabet
// counterparts.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

// isNoise identifies characters ignored during matching, so censored
// words split by punctuation or spaces still match.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
