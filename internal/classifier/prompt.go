package classifier

import "strings"

const (
	// MaxOutputTokens is sized for a bare 6-digit code.
	MaxOutputTokens = 10

	keyLength = 6
)

// BuildPrompt embeds description verbatim. It is not delimited or escaped,
// so a description can carry instructions of its own.
func BuildPrompt(description string) string {
	return "Classify this: " + description + ". Return ONLY the 6-digit HS Code. No text."
}

// LookupKey derives the regulation table key from a model answer: periods
// removed, then at most the first 6 characters.
func LookupKey(code string) string {
	key := strings.ReplaceAll(code, ".", "")
	r := []rune(key)
	if len(r) > keyLength {
		return string(r[:keyLength])
	}
	return key
}
