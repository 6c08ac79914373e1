package conversationutils

import (
	"fmt"

	"github.com/zubale/querybot/pkg/conversation"
	"github.com/zubale/querybot/pkg/conversation/inmemory"
	"github.com/zubale/querybot/pkg/conversation/sqlite"
)

type NewStoreOpts struct {
	ProviderType string
	SQLitePath   string
	MaxEntries   int
}

func NewStore(o *NewStoreOpts) (conversation.Store, error) {
	switch o.ProviderType {
	case "memory":
		return inmemory.NewStore(inmemory.Config{
			MaxEntries: o.MaxEntries,
		}), nil
	case "sqlite":
		path := o.SQLitePath
		if path == "" {
			path = ":memory:"
		}
		return sqlite.NewStore(path)
	default:
		return nil, fmt.Errorf("unsupported conversation store provider: %s", o.ProviderType)
	}
}
