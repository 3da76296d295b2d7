package graphdb

import (
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
)

// QuerySpec allowlists one named query for passthrough invocation.
type QuerySpec struct {
	Graph  string   `yaml:"graph"`
	Params []string `yaml:"params"`
}

// Catalog is the set of named queries callers may invoke by name, with
// the parameters each accepts. Anything not listed is rejected before a
// request is built.
type Catalog struct {
	Queries map[string]QuerySpec `yaml:"queries"`
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Param("query catalog: read %s: %v", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, apperr.Parse("query catalog: parse %s: %v", path, err)
	}
	if len(c.Queries) == 0 {
		return nil, apperr.Param("query catalog: %s lists no queries", path)
	}
	return &c, nil
}

// DefaultCatalog covers the read queries the store ships with.
func DefaultCatalog() *Catalog {
	return &Catalog{Queries: map[string]QuerySpec{
		"find_expand_identity":    {Graph: string(GraphSocial), Params: []string{"platform", "identity"}},
		"find_identity_graph":     {Graph: string(GraphSocial), Params: []string{"p", "reverse_flag"}},
		"expand":                  {Graph: string(GraphSocial), Params: []string{"p", "depth"}},
		"relation_single_pair":    {Graph: string(GraphSocial), Params: []string{"p1", "p2", "depth"}},
		"domain_available_search": {Graph: string(GraphSocial), Params: []string{"id"}},
	}}
}

// Resolve validates a passthrough invocation against the allowlist and
// returns the graph the query runs on.
func (c *Catalog) Resolve(query string, params url.Values) (Graph, error) {
	spec, ok := c.Queries[query]
	if !ok {
		return "", apperr.Param("query %q is not allowlisted", query)
	}
	allowed := map[string]bool{}
	for _, p := range spec.Params {
		allowed[p] = true
	}
	for key := range params {
		if !allowed[key] {
			return "", apperr.Param("query %q does not accept parameter %q", query, key)
		}
	}
	return Graph(spec.Graph), nil
}
