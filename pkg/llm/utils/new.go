package llmutils

import (
	"fmt"
	"time"

	"github.com/zubale/querybot/pkg/llm"
	"github.com/zubale/querybot/pkg/llm/ollama"
	"github.com/zubale/querybot/pkg/llm/openai"
)

type NewCompleterOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
	Timeout      time.Duration
}

func NewCompleter(o *NewCompleterOpts) (llm.Completer, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewCompleter(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			Timeout: o.Timeout,
		})
	case "openai":
		return openai.NewCompleter(openai.Config{
			APIKey:  o.APIKey,
			Model:   o.Model,
			BaseURL: o.TargetURL,
			Timeout: o.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", o.ProviderType)
	}
}
