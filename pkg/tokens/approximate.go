package tokens

// ApproximateCounter estimates token counts at ~4 characters per token,
// the common English heuristic. It needs no encoding tables and no network
// access, making it the safe fallback when tiktoken's BPE files cannot be
// fetched at startup.
type ApproximateCounter struct{}

// NewApproximateCounter creates an approximate counter.
func NewApproximateCounter() *ApproximateCounter {
	return &ApproximateCounter{}
}

const charsPerToken = 4

// Count returns the estimated number of tokens in the given text.
func (ac *ApproximateCounter) Count(text string) int {
	return len(text) / charsPerToken
}
