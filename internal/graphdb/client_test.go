package graphdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{
		Host:               srv.URL,
		AllocationHost:     srv.URL,
		SocialGraphToken:   "social-token",
		IdentityGraphToken: "identity-token",
	}, logger.NewNop())
	require.NoError(t, err)
	return c, srv
}

func TestUpsertGraphSendsAuthAndPayload(t *testing.T) {
	var gotAuth string
	var gotBody UpsertPayload
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/graph/SocialGraph", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("vertex_must_exist"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"error":   false,
			"results": []map[string]any{{"accepted_vertices": 1, "accepted_edges": 0}},
		})
	}))

	b := NewBuilder()
	b.AddVertex(model.NewIdentity(model.PlatformEthereum, "0xAbC"))
	require.NoError(t, c.UpsertGraph(context.Background(), GraphSocial, b.Build()))

	assert.Equal(t, "Bearer social-token", gotAuth)
	require.Contains(t, gotBody.Vertices, model.VertexIdentity)
	require.Contains(t, gotBody.Vertices[model.VertexIdentity], "ethereum,0xabc")
}

func TestUpsertGraphSurfacesRemoteError(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error":   true,
			"code":    "REST-30200",
			"message": "schema mismatch",
		})
	}))
	err := c.UpsertGraph(context.Background(), GraphSocial, NewBuilder().Build())
	require.Error(t, err)
	assert.True(t, apperr.IsRemote(err))
	assert.Contains(t, err.Error(), "REST-30200")
}

func TestUpsertGraphMissingEndpointIsContractViolation(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": false,
			"results": []map[string]any{{
				"accepted_vertices": 0,
				"accepted_edges":    0,
				"edge_vertices_not_exist": []map[string]string{
					{"v_type": "Identities", "v_id": "twitter,ghost"},
				},
			}},
		})
	}))
	err := c.UpsertGraph(context.Background(), GraphSocial, NewBuilder().Build())
	require.Error(t, err)
	assert.True(t, apperr.IsContract(err))
}

func TestFindIdentityNotFound(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query/SocialGraph/find_expand_identity", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   false,
			"results": []map[string]any{{"expand_vlist": []any{}}},
		})
	}))
	_, err := c.FindIdentity(context.Background(), model.PlatformEthereum, "0xabc")
	assert.True(t, apperr.IsNotFound(err))
}

func TestFindIdentityDecodesRecord(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": false,
			"results": []map[string]any{{"expand_vlist": []map[string]any{{
				"record": map[string]any{
					"v_type": "Identities",
					"v_id":   "ethereum,0xabc",
					"attributes": map[string]any{
						"uuid":       "b31c6a60-5fd2-4e40-8bcd-58b845bcd5a3",
						"platform":   "ethereum",
						"identity":   "0xabc",
						"added_at":   "2024-05-01T12:00:00",
						"updated_at": "2024-05-01T12:00:00",
						"reverse":    false,
					},
				},
				"owner_address": []map[string]any{{"chain": "ethereum", "address": "0xabc"}},
			}}}},
		})
	}))
	got, err := c.FindIdentity(context.Background(), model.PlatformEthereum, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "ethereum,0xabc", got.Record.VID)
	assert.Equal(t, model.PlatformEthereum, got.Record.Attributes.Platform)
	require.Len(t, got.OwnerAddresses, 1)
	assert.Equal(t, model.ChainEthereum, got.OwnerAddresses[0].Chain)
}

func TestFindIdentityGraphFiltersKeybaseEdges(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": false,
			"results": []map[string]any{{
				"graph_id": "g-1",
				"vertices": []any{},
				"edges": []map[string]any{
					{"edge_type": "Proof_Forward", "data_source": "keybase", "source_v": "a", "target_v": "b"},
					{"edge_type": "Proof_Forward", "data_source": "nextid", "source_v": "a", "target_v": "c"},
				},
			}},
		})
	}))
	g, err := c.FindIdentityGraph(context.Background(), model.PlatformTwitter, "alice", nil)
	require.NoError(t, err)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "nextid", g.Edges[0].DataSource)
}

func TestBatchUpsertAllocatesGraphID(t *testing.T) {
	var upserted UpsertPayload
	mux := http.NewServeMux()
	mux.HandleFunc("/id_allocation/allocation", func(w http.ResponseWriter, r *http.Request) {
		var req idAllocationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.ElementsMatch(t, []string{"twitter,alice", "ethereum,0xabc"}, req.VIDs)
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"return_graph_id":           "allocated-7",
				"return_updated_nanosecond": 1700000000000001,
			},
		})
	})
	mux.HandleFunc("/graph/SocialGraph", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&upserted))
		json.NewEncoder(w).Encode(map[string]any{"error": false})
	})
	c, _ := testClient(t, mux)

	graph := model.NewIdentitiesGraph()
	a := model.NewIdentity(model.PlatformTwitter, "alice")
	w := model.NewIdentity(model.PlatformEthereum, "0xabc")
	proof := model.NewProof(model.SourceNextID, model.LevelVeryConfident)
	hyper := model.HyperEdge{}

	b := NewBuilder()
	b.AddEdge(graph, a, hyper.Wrapper(graph, a))
	b.AddEdge(graph, w, hyper.Wrapper(graph, w))
	b.AddEdge(a, w, proof.Forward(a, w))
	require.NoError(t, c.BatchUpsert(context.Background(), b))

	require.Contains(t, upserted.Vertices[model.VertexIdentitiesGraph], "allocated-7")
	require.NotContains(t, upserted.Vertices[model.VertexIdentitiesGraph], model.FakeGraphID)
	require.Contains(t, upserted.Edges[model.VertexIdentitiesGraph], "allocated-7")
}

func TestBatchUpsertKeepsGeneratedIDWhenAllocationFails(t *testing.T) {
	var upserted UpsertPayload
	mux := http.NewServeMux()
	mux.HandleFunc("/id_allocation/allocation", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/graph/SocialGraph", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&upserted))
		json.NewEncoder(w).Encode(map[string]any{"error": false})
	})
	c, _ := testClient(t, mux)

	graph := model.NewIdentitiesGraph()
	a := model.NewIdentity(model.PlatformTwitter, "alice")
	hyper := model.HyperEdge{}
	b := NewBuilder()
	b.AddEdge(graph, a, hyper.Wrapper(graph, a))
	require.NoError(t, c.BatchUpsert(context.Background(), b))

	require.NotContains(t, upserted.Vertices[model.VertexIdentitiesGraph], model.FakeGraphID)
	require.Len(t, upserted.Vertices[model.VertexIdentitiesGraph], 1)
}

func TestCatalogResolve(t *testing.T) {
	cat := DefaultCatalog()

	g, err := cat.Resolve("find_identity_graph", mustValues(map[string]string{"p": "twitter,alice"}))
	require.NoError(t, err)
	assert.Equal(t, GraphSocial, g)

	_, err = cat.Resolve("drop_everything", nil)
	assert.True(t, apperr.IsParam(err))

	_, err = cat.Resolve("expand", mustValues(map[string]string{"p": "x", "admin": "1"}))
	assert.True(t, apperr.IsParam(err))
}

func mustValues(m map[string]string) map[string][]string {
	out := map[string][]string{}
	for k, v := range m {
		out[k] = []string{v}
	}
	return out
}
