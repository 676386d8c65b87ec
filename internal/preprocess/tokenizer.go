package preprocess

import (
	"regexp"
	"strings"
)

// Lemmatizer reduces a lowercase word to its base form. Implementations wrap
// whatever linguistic analyzer is available; the tokenizer degrades to a plain
// regex split when none is configured.
type Lemmatizer interface {
	Lemma(word string) string
}

var (
	wordPattern  = regexp.MustCompile(`\b\w+\b`)
	alphaPattern = regexp.MustCompile(`[a-z]+`)
	nonAlnum     = regexp.MustCompile(`[^A-Z0-9\s]`)
)

// stopwords is a small English stop-word set applied on the analyzer path.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "by": true, "for": true,
	"from": true, "in": true, "of": true, "on": true, "or": true, "the": true,
	"to": true, "with": true,
}

// Tokenizer splits transaction text into uppercase tokens. With a lemmatizer
// configured it filters stop-words and reduces tokens to base forms; without
// one it falls back to a word-boundary regex split.
type Tokenizer struct {
	lemmatizer Lemmatizer
}

// NewTokenizer creates a tokenizer. A nil lemmatizer selects the fallback path.
func NewTokenizer(lemmatizer Lemmatizer) *Tokenizer {
	return &Tokenizer{lemmatizer: lemmatizer}
}

// Tokenize splits text into uppercase tokens, order preserved. Both paths
// produce uppercase output so downstream comparisons are case-insensitive.
func (t *Tokenizer) Tokenize(text string) []string {
	if t.lemmatizer == nil {
		return wordPattern.FindAllString(strings.ToUpper(text), -1)
	}

	words := alphaPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if stopwords[word] {
			continue
		}
		tokens = append(tokens, strings.ToUpper(t.lemmatizer.Lemma(word)))
	}
	return tokens
}

// Normalize produces the single uppercase string used for matching and
// display. With a lemmatizer it joins the lemmatized tokens; without one it
// strips non-alphanumeric characters and collapses whitespace.
func (t *Tokenizer) Normalize(text string) string {
	if t.lemmatizer != nil {
		return strings.Join(t.Tokenize(text), " ")
	}

	upper := nonAlnum.ReplaceAllString(strings.ToUpper(text), "")
	return strings.Join(strings.Fields(upper), " ")
}
