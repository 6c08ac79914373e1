// Package tokens provides token counting for summarization budget checks.
package tokens

// Counter counts tokens in text.
type Counter interface {
	// Count returns the number of tokens in the given text.
	Count(text string) int
}

// perMessageOverhead accounts for role framing and message delimiters
// when counting a whole conversation turn.
const perMessageOverhead = 4

// CountMessage returns the token count of one message including framing overhead.
func CountMessage(c Counter, content string) int {
	return c.Count(content) + perMessageOverhead
}
