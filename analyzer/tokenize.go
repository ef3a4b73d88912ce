package analyzer

import (
	"unicode"

	"github.com/jdkato/prose/tokenize"
)

var (
	sentenceTokenizer = tokenize.NewPunktSentenceTokenizer()
	wordTokenizer     = tokenize.NewTreebankWordTokenizer()
)

// Tokenize splits text into Punkt sentences and each sentence into Treebank
// word and punctuation tokens, so "don't" yields "do" and "n't" and
// abbreviations such as "Mr." stay whole.
func Tokenize(text string) []string {
	var tokens []string
	for _, sentence := range sentenceTokenizer.Tokenize(text) {
		tokens = append(tokens, wordTokenizer.Tokenize(sentence)...)
	}
	return tokens
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
