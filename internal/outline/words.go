package outline

import "strings"

// CountWords returns the number of whitespace-separated runs in text.
// Empty or whitespace-only text counts as 0 words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
