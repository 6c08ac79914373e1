package vectorutils

import (
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/zubale/querybot/pkg/vector"
	"github.com/zubale/querybot/pkg/vector/chroma"
	"github.com/zubale/querybot/pkg/vector/qdrantstore"
)

type NewVectorDriverOpts struct {
	ProviderType string
	TargetURL    string
	Collection   string
	Dimensions   uint64
	Logger       *zap.Logger
}

func NewVectorDriver(o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "chroma":
		return chroma.NewChromaDriver(chroma.Config{
			URL:            o.TargetURL,
			CollectionName: o.Collection,
		}, o.Logger)
	case "qdrant":
		host, port, err := splitHostPort(o.TargetURL)
		if err != nil {
			return nil, fmt.Errorf("parsing qdrant target: %w", err)
		}
		return qdrantstore.NewQdrantDriver(qdrantstore.Config{
			Host:           host,
			Port:           port,
			CollectionName: o.Collection,
			Dimensions:     o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}

// splitHostPort extracts host and port from a target that may be a bare
// "host:port" pair or a full URL.
func splitHostPort(target string) (string, int, error) {
	u, err := url.Parse(target)
	if err == nil && u.Host != "" {
		target = u.Host
	}

	host := target
	port := 0
	if h, p, err := splitLast(target); err == nil {
		host = h
		port = p
	}

	if host == "" {
		return "", 0, fmt.Errorf("empty host in %q", target)
	}

	return host, port, nil
}

func splitLast(hostport string) (string, int, error) {
	for i := len(hostport) - 1; i >= 0; i-- {
		if hostport[i] == ':' {
			port, err := strconv.Atoi(hostport[i+1:])
			if err != nil {
				return "", 0, err
			}
			return hostport[:i], port, nil
		}
	}
	return "", 0, fmt.Errorf("no port in %q", hostport)
}
