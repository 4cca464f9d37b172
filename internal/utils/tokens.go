package utils

// Token estimation used to keep prompts within a model budget.
// 1 token is approximated as 4 characters.

// CountTokens estimates the number of tokens in the given text.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// TruncateToTokenLimit truncates text to roughly fit within a token limit,
// cutting at the last newline inside the budget when there is one.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	charLimit := limit * 4
	if charLimit >= len(runes) {
		return text
	}
	cut := runes[:charLimit]
	for i := len(cut) - 1; i > charLimit/2; i-- {
		if cut[i] == '\n' {
			return string(cut[:i])
		}
	}
	return string(cut)
}
