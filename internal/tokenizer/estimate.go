// Package tokenizer provides token counting for assembled documents: a crude
// word-run estimate used by the core, and a tiktoken-backed counter for
// model-accurate reporting.
package tokenizer

import "unicode"

// EstimateTokens counts non-overlapping maximal runs of letters, digits, and
// underscore in text. A deliberately crude approximation giving the caller a
// size signal, not a billing-accurate count.
func EstimateTokens(text string) int {
	tokenCount := 0
	insideWord := false
	for _, character := range text {
		if isWordCharacter(character) {
			if !insideWord {
				tokenCount++
			}
			insideWord = true
			continue
		}
		insideWord = false
	}
	return tokenCount
}

func isWordCharacter(character rune) bool {
	return character == '_' || unicode.IsLetter(character) || unicode.IsDigit(character)
}
