// Package graphdb is the HTTP client for the remote graph store: batched
// vertex/edge upserts with per-attribute merge operators, named query
// invocation and the maintenance operations built on them.
package graphdb

import (
	"fmt"
	"time"
)

// Graph names one logical sub-graph. Each carries its own bearer token.
type Graph string

const (
	GraphIdentity Graph = "IdentityGraph"
	GraphAsset    Graph = "AssetGraph"
	GraphSocial   Graph = "SocialGraph"
)

func (g Graph) String() string { return string(g) }

type Config struct {
	// Host is the store's REST endpoint, e.g. "http://tigergraph:9000".
	Host string
	// AllocationHost serves the id allocation sidecar. Optional; when
	// empty, batch upserts keep their locally generated graph id.
	AllocationHost string

	IdentityGraphToken string
	AssetGraphToken    string
	SocialGraphToken   string

	Timeout time.Duration
}

func (c Config) token(g Graph) string {
	switch g {
	case GraphIdentity:
		return fmt.Sprintf("Bearer %s", c.IdentityGraphToken)
	case GraphAsset:
		return fmt.Sprintf("Bearer %s", c.AssetGraphToken)
	case GraphSocial:
		return fmt.Sprintf("Bearer %s", c.SocialGraphToken)
	}
	return ""
}
