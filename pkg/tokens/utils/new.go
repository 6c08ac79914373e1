package tokenutils

import (
	"fmt"

	"github.com/zubale/querybot/pkg/tokens"
)

func NewCounter(counterType string) (tokens.Counter, error) {
	switch counterType {
	case "tiktoken":
		return tokens.NewTiktokenCounter()
	case "approximate":
		return tokens.NewApproximateCounter(), nil
	default:
		return nil, fmt.Errorf("unsupported token counter: %s", counterType)
	}
}
