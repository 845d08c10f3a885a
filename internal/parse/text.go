package parse

import (
	"strings"
	"unicode"

	"github.com/gantryworks/gantry/internal/config"
)

// extractTitle takes the first sentence of the text, strips leading
// filler words, and caps the result at the configured length on a word
// boundary. Only the leading run of fillers is dropped so verbs inside
// the clause survive.
func extractTitle(text string, rules config.ParserConfig) string {
	sentence := firstSentence(text)
	if sentence == "" {
		return ""
	}

	words := strings.Fields(sentence)
	start := 0
	for start < len(words) && isFiller(words[start], rules.FillerWords) {
		start++
	}
	if start == len(words) {
		start = 0 // all fillers: keep the sentence rather than nothing
	}

	title := strings.Join(words[start:], " ")
	title = capWords(title, rules.TitleMaxLen)
	return capitalize(title)
}

// firstSentence returns the first non-blank sentence of the text.
// Sentence breaks are ., !, ?, and newlines.
func firstSentence(text string) string {
	rest := strings.TrimSpace(text)
	for rest != "" {
		end := strings.IndexAny(rest, ".!?\n")
		var sentence string
		if end < 0 {
			sentence, rest = rest, ""
		} else {
			sentence, rest = rest[:end], strings.TrimSpace(rest[end+1:])
		}
		if s := strings.TrimSpace(sentence); s != "" {
			return s
		}
	}
	return ""
}

// splitClauses breaks text into clause-sized pieces: sentences split
// further on semicolons.
func splitClauses(text string) []string {
	var clauses []string
	for _, sentence := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n' || r == ';'
	}) {
		if s := strings.TrimSpace(sentence); s != "" {
			clauses = append(clauses, s)
		}
	}
	return clauses
}

// containsTerm reports whether term occurs in text on word boundaries.
// Works for multi-word terms; both arguments must already be
// lowercase.
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for offset := 0; ; {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		offset = start + 1
	}
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordRune(rune(text[i-1]))
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	return !isWordRune(rune(text[i]))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isFiller(word string, fillers []string) bool {
	w := strings.ToLower(strings.Trim(word, ",:;"))
	for _, f := range fillers {
		if w == f {
			return true
		}
	}
	return false
}

// capWords truncates s to at most max bytes without splitting a word.
func capWords(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
