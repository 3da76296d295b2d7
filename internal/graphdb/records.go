package graphdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
	"github.com/yungbote/relationgraph-backend/internal/model"
)

// vertexJSON renders a vertex record as the plain JSON object the
// isolated/hyper vertex queries consume (values only, no merge ops).
func vertexJSON(v model.Vertex) map[string]any {
	attrs := map[string]any{}
	for k, a := range v.ToAttributesMap() {
		attrs[k] = a.Value
	}
	return map[string]any{
		"v_type":     v.VertexType(),
		"v_id":       v.PrimaryKey(),
		"attributes": attrs,
	}
}

type upsertIsolatedVertexRequest struct {
	VertexStr         string `json:"vertex_str"`
	UpdatedNanosecond int64  `json:"updated_nanosecond"`
}

type upsertHyperVertexRequest struct {
	FromStr           string `json:"from_str"`
	ToStr             string `json:"to_str"`
	UpdatedNanosecond int64  `json:"updated_nanosecond"`
}

// CreateIdentities upserts bare Identity vertices with no edges.
func (c *Client) CreateIdentities(ctx context.Context, ids ...*model.Identity) error {
	b := NewBuilder()
	for _, id := range ids {
		b.AddVertex(id)
	}
	return c.UpsertGraph(ctx, GraphSocial, b.Build())
}

// CreateIsolatedIdentity writes a vertex with no edges through the
// store's dedicated query, so a wallet with nothing discovered yet is
// still findable later.
func (c *Client) CreateIsolatedIdentity(ctx context.Context, v *model.Identity) error {
	raw, err := json.Marshal(vertexJSON(v))
	if err != nil {
		return apperr.Parse("encode isolated vertex: %v", err)
	}
	req := upsertIsolatedVertexRequest{
		VertexStr:         string(raw),
		UpdatedNanosecond: time.Now().UnixMicro(),
	}
	return c.PostQuery(ctx, GraphSocial, "upsert_isolated_vertex", req, nil)
}

func (c *Client) upsertHyperVertex(ctx context.Context, from, to model.Vertex) error {
	fromRaw, err := json.Marshal(vertexJSON(from))
	if err != nil {
		return apperr.Parse("encode hyper vertex source: %v", err)
	}
	toRaw, err := json.Marshal(vertexJSON(to))
	if err != nil {
		return apperr.Parse("encode hyper vertex target: %v", err)
	}
	req := upsertHyperVertexRequest{
		FromStr:           string(fromRaw),
		ToStr:             string(toRaw),
		UpdatedNanosecond: time.Now().UnixMicro(),
	}
	return c.PostQuery(ctx, GraphSocial, "upsert_hyper_vertex", req, nil)
}

// CreateProofBinding writes the two-way Proof binding between two
// Identities: the hyper-vertex membership first, then both edges.
func (c *Client) CreateProofBinding(ctx context.Context, from, to *model.Identity, forward, backward *model.Proof) error {
	if err := c.upsertHyperVertex(ctx, from, to); err != nil {
		return err
	}
	b := NewBuilder()
	b.AddEdge(from, to, forward.Forward(from, to))
	b.AddEdge(to, from, backward.Backward(to, from))
	return c.UpsertGraph(ctx, GraphSocial, b.Build())
}

// CreateIdentityHold links holder to a domain-name Identity.
func (c *Client) CreateIdentityHold(ctx context.Context, from, to *model.Identity, hold *model.Hold) error {
	if err := c.upsertHyperVertex(ctx, from, to); err != nil {
		return err
	}
	b := NewBuilder()
	b.AddEdge(from, to, hold.IdentityWrapper(from, to))
	return c.UpsertGraph(ctx, GraphSocial, b.Build())
}

// CreateContractHold links holder to a Contract.
func (c *Client) CreateContractHold(ctx context.Context, from *model.Identity, to *model.Contract, hold *model.Hold) error {
	if err := c.upsertHyperVertex(ctx, from, to); err != nil {
		return err
	}
	b := NewBuilder()
	b.AddEdge(from, to, hold.ContractWrapper(from, to))
	return c.UpsertGraph(ctx, GraphSocial, b.Build())
}

// CreateResolve records name -> address. The address goes in as an
// isolated vertex because the resolved address may belong to a
// different owner than the name.
func (c *Client) CreateResolve(ctx context.Context, name, address *model.Identity, resolve *model.Resolve) error {
	if err := c.CreateIsolatedIdentity(ctx, address); err != nil {
		return err
	}
	if err := c.CreateIdentities(ctx, name); err != nil {
		return err
	}
	b := NewBuilder()
	b.AddEdge(name, address, resolve.Wrapper(name, address))
	return c.UpsertGraph(ctx, GraphSocial, b.Build())
}

// CreateReverseResolve records address -> canonical name.
func (c *Client) CreateReverseResolve(ctx context.Context, address, name *model.Identity, resolve *model.Resolve) error {
	if err := c.CreateIsolatedIdentity(ctx, address); err != nil {
		return err
	}
	if err := c.CreateIdentities(ctx, name); err != nil {
		return err
	}
	b := NewBuilder()
	b.AddEdge(address, name, resolve.ReverseWrapper(address, name))
	return c.UpsertGraph(ctx, GraphSocial, b.Build())
}

// CreateContractResolve records registrar contract -> address.
func (c *Client) CreateContractResolve(ctx context.Context, from *model.Contract, to *model.Identity, resolve *model.Resolve) error {
	if err := c.CreateIsolatedIdentity(ctx, to); err != nil {
		return err
	}
	b := NewBuilder()
	b.AddVertex(from)
	b.AddEdge(from, to, resolve.ContractWrapper(from, to))
	return c.UpsertGraph(ctx, GraphSocial, b.Build())
}

// CreateContractReverseResolve records address -> registrar contract.
func (c *Client) CreateContractReverseResolve(ctx context.Context, from *model.Identity, to *model.Contract, resolve *model.Resolve) error {
	if err := c.CreateIsolatedIdentity(ctx, from); err != nil {
		return err
	}
	b := NewBuilder()
	b.AddVertex(to)
	b.AddEdge(from, to, resolve.ReverseContractWrapper(from, to))
	return c.UpsertGraph(ctx, GraphSocial, b.Build())
}

// UpsertDomainCollection writes the label grouping vertex on its own.
func (c *Client) UpsertDomainCollection(ctx context.Context, label string) error {
	b := NewBuilder()
	b.AddVertex(model.NewDomainCollection(label))
	return c.UpsertGraph(ctx, GraphSocial, b.Build())
}

// BatchUpsertDomains flushes a domain-search batch without touching id
// allocation; DomainCollection membership never joins a component.
func (c *Client) BatchUpsertDomains(ctx context.Context, b *Builder) error {
	if b.Empty() {
		return nil
	}
	return c.UpsertGraph(ctx, GraphSocial, b.Build())
}

type idAllocationRequest struct {
	GraphID           string   `json:"graph_id"`
	UpdatedNanosecond int64    `json:"updated_nanosecond"`
	VIDs              []string `json:"vids"`
}

type idAllocationResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data *struct {
		GraphID           string `json:"return_graph_id"`
		UpdatedNanosecond int64  `json:"return_updated_nanosecond"`
	} `json:"data,omitempty"`
}

// allocateGraphID asks the allocation sidecar which canonical component
// the given identities belong to.
func (c *Client) allocateGraphID(ctx context.Context, generated string, updatedNanosecond int64, vids []string) (string, int64, error) {
	if c.cfg.AllocationHost == "" {
		return "", 0, apperr.Param("graphdb: allocation host not configured")
	}
	u := fmt.Sprintf("%s/id_allocation/allocation", c.cfg.AllocationHost)
	req := idAllocationRequest{GraphID: generated, UpdatedNanosecond: updatedNanosecond, VIDs: vids}
	var resp idAllocationResponse
	if err := c.do(ctx, "POST", u, "", req, &resp); err != nil {
		return "", 0, err
	}
	if resp.Code != 0 {
		return "", 0, apperr.Remote(0, "id allocation failed: code=%d msg=%s", resp.Code, resp.Msg)
	}
	if resp.Data == nil || resp.Data.GraphID == "" || resp.Data.UpdatedNanosecond == 0 {
		return "", 0, apperr.Parse("id allocation returned empty result")
	}
	return resp.Data.GraphID, resp.Data.UpdatedNanosecond, nil
}

// BatchUpsert flushes one traversal's accumulated edges in a single
// round trip. The placeholder hyper-vertex id is swapped for the
// allocated component id first; allocation failure falls back to the
// locally generated id so the write still lands.
func (c *Client) BatchUpsert(ctx context.Context, b *Builder) error {
	if b.Empty() {
		return nil
	}
	payload := b.Build()

	generated := uuid.New().String()
	nanos := time.Now().UnixMicro()
	finalID, finalNanos := generated, nanos
	if vids := payload.ConnectedIdentityIDs(); len(vids) > 0 {
		if id, ns, err := c.allocateGraphID(ctx, generated, nanos, vids); err != nil {
			c.log.Warn("id allocation failed, keeping generated graph id",
				"generated", generated, "error", err)
		} else if id != generated {
			finalID, finalNanos = id, ns
		}
	}
	payload.ReplaceGraphID(finalID, finalNanos)

	if err := c.UpsertGraph(ctx, GraphSocial, payload); err != nil {
		return err
	}
	return c.insertContractConnections(ctx, b.contractEdges())
}

type contractEdgesRequest struct {
	EdgesStr string `json:"edges_str"`
}

// insertContractConnections feeds the contract-flavored edges of a
// batch to the store's installer query, which maintains the asset-side
// adjacency the plain upsert does not cover.
func (c *Client) insertContractConnections(ctx context.Context, edges []batchEdge) error {
	if len(edges) == 0 {
		return nil
	}
	connections := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		conn := map[string]any{}
		for k, a := range e.wrapper.Attributes {
			conn[k] = a.Value
		}
		conn["from_id"] = e.wrapper.FromID
		conn["to_id"] = e.wrapper.ToID
		conn["edge_type"] = e.wrapper.Type
		connections = append(connections, conn)
	}
	raw, err := json.Marshal(connections)
	if err != nil {
		return apperr.Parse("encode contract connections: %v", err)
	}
	return c.PostQuery(ctx, GraphSocial, "insert_contract_connection", contractEdgesRequest{EdgesStr: string(raw)}, nil)
}

// DeleteGraphInnerConnection removes a vertex and its incident edges up
// to 10 hops, ahead of a scheduled refetch.
func (c *Client) DeleteGraphInnerConnection(ctx context.Context, vid string) error {
	if vid == "" {
		return apperr.Param("delete_graph_inner_connection: v_id required")
	}
	params := url.Values{}
	params.Set("p", vid)
	params.Set("depth", "10")
	return c.RunQuery(ctx, GraphSocial, "delete_graph_inner_connection", params, nil)
}

// DeleteDomainCollection removes a search grouping vertex and its
// membership edges.
func (c *Client) DeleteDomainCollection(ctx context.Context, label string) error {
	if label == "" {
		return apperr.Param("delete_domain_collection: name required")
	}
	params := url.Values{}
	params.Set("p", label)
	return c.RunQuery(ctx, GraphSocial, "delete_domain_collection", params, nil)
}
