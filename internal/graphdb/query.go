package graphdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
	"github.com/yungbote/relationgraph-backend/internal/model"
)

// Address is one chain-qualified address attached to an expanded
// identity.
type Address struct {
	Chain   model.Chain `json:"chain"`
	Address string      `json:"address"`
}

// ExpandIdentity is one identity plus the addresses it owns or resolves
// to, as returned by the expansion queries.
type ExpandIdentity struct {
	Record           model.IdentityRecord `json:"record"`
	OwnerAddresses   []Address            `json:"owner_address,omitempty"`
	ResolveAddresses []Address            `json:"resolve_address,omitempty"`
}

// IdentityConnection is one edge of a returned component.
type IdentityConnection struct {
	EdgeType   string `json:"edge_type"`
	DataSource string `json:"data_source"`
	Source     string `json:"source_v"`
	Target     string `json:"target_v"`
}

// IdentityGraphResult is one connected component.
type IdentityGraphResult struct {
	GraphID  string               `json:"graph_id"`
	Vertices []ExpandIdentity     `json:"vertices"`
	Edges    []IdentityConnection `json:"edges"`
}

// RelationPath is the relation-strength topology between two
// identities.
type RelationPath struct {
	AllCount int `json:"all_count"`
	Edges    []struct {
		Record model.RelationUniqueTXRecord `json:"record"`
	} `json:"edges"`
	OriginalVertices []model.IdentityRecord `json:"original_vertices"`
}

// AvailableDomain is one name in a domain-search result.
type AvailableDomain struct {
	Platform     model.Platform     `json:"platform"`
	Name         string             `json:"name"`
	TLD          string             `json:"tld"`
	ExpiredAt    string             `json:"expired_at,omitempty"`
	Availability bool               `json:"availability"`
	Status       model.DomainStatus `json:"status"`
}

// DomainSearchResult pairs the collection vertex with its member names.
type DomainSearchResult struct {
	Collection model.DomainCollectionRecord `json:"collection"`
	Domains    []AvailableDomain            `json:"domains"`
}

func identityQueryKey(platform model.Platform, identity string) string {
	id := model.Identity{Platform: platform, Identity: identity}
	return id.PrimaryKey()
}

// FindIdentity looks up one identity with its owner and resolve
// addresses. Returns apperr.ErrNotFound when the vertex does not exist;
// that is a success outcome, not a failure.
func (c *Client) FindIdentity(ctx context.Context, platform model.Platform, identity string) (*ExpandIdentity, error) {
	params := url.Values{}
	params.Set("platform", platform.String())
	params.Set("identity", identity)
	var results []struct {
		ExpandVList []ExpandIdentity `json:"expand_vlist"`
	}
	if err := c.RunQuery(ctx, GraphSocial, "find_expand_identity", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 || len(results[0].ExpandVList) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &results[0].ExpandVList[0], nil
}

// FindIdentityGraph returns the connected component containing the
// given identity. reverse narrows domain identities: nil keeps all,
// true keeps only primary-domain ones, false only non-primary.
func (c *Client) FindIdentityGraph(ctx context.Context, platform model.Platform, identity string, reverse *bool) (*IdentityGraphResult, error) {
	flag := 0
	if reverse != nil {
		if *reverse {
			flag = 1
		} else {
			flag = 2
		}
	}
	params := url.Values{}
	params.Set("p", identityQueryKey(platform, identity))
	params.Set("reverse_flag", strconv.Itoa(flag))

	var results []IdentityGraphResult
	if err := c.RunQuery(ctx, GraphSocial, "find_identity_graph", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 || results[0].GraphID == "" || len(results[0].Edges) == 0 {
		return nil, apperr.ErrNotFound
	}
	g := results[0]
	// keybase edges carry too little confidence to surface in reads
	filtered := g.Edges[:0]
	for _, e := range g.Edges {
		if e.DataSource != model.SourceKeybase.String() {
			filtered = append(filtered, e)
		}
	}
	g.Edges = filtered
	if len(g.Edges) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &g, nil
}

// ExpandGraph walks outward from one identity up to depth hops.
func (c *Client) ExpandGraph(ctx context.Context, platform model.Platform, identity string, depth int) ([]ExpandIdentity, error) {
	params := url.Values{}
	params.Set("p", identityQueryKey(platform, identity))
	params.Set("depth", strconv.Itoa(depth))
	var results []struct {
		ExpandVList []ExpandIdentity `json:"expand_vlist"`
	}
	if err := c.RunQuery(ctx, GraphSocial, "expand", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 || len(results[0].ExpandVList) == 0 {
		return nil, apperr.ErrNotFound
	}
	return results[0].ExpandVList, nil
}

// RelationBetween returns the relation topology linking two identities
// within depth hops.
func (c *Client) RelationBetween(ctx context.Context, srcPlatform model.Platform, src string, dstPlatform model.Platform, dst string, depth int) (*RelationPath, error) {
	params := url.Values{}
	params.Set("p1", identityQueryKey(srcPlatform, src))
	params.Set("p2", identityQueryKey(dstPlatform, dst))
	params.Set("depth", strconv.Itoa(depth))
	var results []RelationPath
	if err := c.RunQuery(ctx, GraphSocial, "relation_single_pair", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &results[0], nil
}

type edgeListResponse struct {
	BaseResponse
	Results []model.HoldRecord `json:"results"`
}

// FindHolds reads Hold edges between two vertices through the store's
// edge-retrieval endpoint. toType picks the edge flavor. filters narrow
// by edge attribute, e.g. {"id": "vitalik.eth"}.
func (c *Client) FindHolds(ctx context.Context, fromID, toType, toID string, filters map[string]string) ([]model.HoldRecord, error) {
	eType := model.EdgeHoldIdentity
	if toType == model.VertexContract {
		eType = model.EdgeHoldContract
	}
	u := fmt.Sprintf("%s/graph/%s/edges/%s/%s/%s/%s/%s",
		c.cfg.Host, GraphSocial,
		model.VertexIdentity, url.PathEscape(fromID),
		eType,
		toType, url.PathEscape(toID))
	if len(filters) > 0 {
		filter := ""
		for k, v := range filters {
			if filter != "" {
				filter += ","
			}
			filter += fmt.Sprintf("%s=%%22%s%%22", k, url.QueryEscape(v))
		}
		u += "?filter=" + filter
	}
	var resp edgeListResponse
	if err := c.do(ctx, "GET", u, c.cfg.token(GraphSocial), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error {
		return nil, apperr.Remote(0, "find holds failed: code=%s message=%s", resp.Code, resp.Message)
	}
	return resp.Results, nil
}

// DomainAvailableSearch looks up every known name sharing a label, with
// registration status per naming system.
func (c *Client) DomainAvailableSearch(ctx context.Context, label string) (*DomainSearchResult, error) {
	params := url.Values{}
	params.Set("id", label)
	var results []struct {
		Collection []model.DomainCollectionRecord `json:"collection"`
		Domains    []AvailableDomain              `json:"domains"`
	}
	if err := c.RunQuery(ctx, GraphSocial, "domain_available_search", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 || len(results[0].Collection) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &DomainSearchResult{
		Collection: results[0].Collection[0],
		Domains:    results[0].Domains,
	}, nil
}
