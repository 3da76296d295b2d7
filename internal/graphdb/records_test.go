package graphdb

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/relationgraph-backend/internal/model"
)

// recordServer tracks which store endpoint each record write hit, in
// order, so the tests can assert the vertex-before-edge sequencing.
type recordServer struct {
	calls    []string
	payloads []UpsertPayload
}

func newRecordServer(t *testing.T) (*Client, *recordServer) {
	t.Helper()
	s := &recordServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/graph/SocialGraph", func(w http.ResponseWriter, r *http.Request) {
		var p UpsertPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		s.calls = append(s.calls, "graph")
		s.payloads = append(s.payloads, p)
		json.NewEncoder(w).Encode(map[string]any{"error": false})
	})
	mux.HandleFunc("/query/SocialGraph/upsert_isolated_vertex", func(w http.ResponseWriter, r *http.Request) {
		s.calls = append(s.calls, "isolated")
		json.NewEncoder(w).Encode(map[string]any{"error": false})
	})
	mux.HandleFunc("/query/SocialGraph/upsert_hyper_vertex", func(w http.ResponseWriter, r *http.Request) {
		s.calls = append(s.calls, "hyper")
		json.NewEncoder(w).Encode(map[string]any{"error": false})
	})
	c, _ := testClient(t, mux)
	return c, s
}

func TestCreateProofBindingWritesHyperVertexThenBothEdges(t *testing.T) {
	c, s := newRecordServer(t)
	from := model.NewIdentity(model.PlatformTwitter, "alice")
	to := model.NewIdentity(model.PlatformGithub, "alicedev")

	require.NoError(t, c.CreateProofBinding(context.Background(), from, to,
		model.NewProof(model.SourceNextID, model.LevelVeryConfident),
		model.NewProof(model.SourceNextID, model.LevelVeryConfident)))

	require.Equal(t, []string{"hyper", "graph"}, s.calls)
	edges := s.payloads[0].Edges
	require.Contains(t, edges[model.VertexIdentity]["twitter,alice"], model.EdgeProofForward)
	require.Contains(t, edges[model.VertexIdentity]["github,alicedev"], model.EdgeProofBackward)
}

func TestCreateHoldRecords(t *testing.T) {
	c, s := newRecordServer(t)
	owner := model.NewIdentity(model.PlatformEthereum, "0xabc")
	name := model.NewIdentity(model.PlatformENS, "alice.eth")
	hold := model.NewHold(model.SourceTheGraph, "alice.eth")

	require.NoError(t, c.CreateIdentityHold(context.Background(), owner, name, hold))

	contract := model.NewContract(model.ChainEthereum, model.CategoryENS, "0xens")
	require.NoError(t, c.CreateContractHold(context.Background(), owner, contract, hold))

	require.Equal(t, []string{"hyper", "graph", "hyper", "graph"}, s.calls)
	require.Contains(t, s.payloads[0].Edges[model.VertexIdentity]["ethereum,0xabc"], model.EdgeHoldIdentity)
	byType := s.payloads[1].Edges[model.VertexIdentity]["ethereum,0xabc"][model.EdgeHoldContract]
	require.Contains(t, byType, model.VertexContract)
}

func TestCreateResolveWritesAddressFirst(t *testing.T) {
	c, s := newRecordServer(t)
	name := model.NewIdentity(model.PlatformENS, "alice.eth")
	addr := model.NewIdentity(model.PlatformEthereum, "0xabc")
	resolve := model.NewResolve(model.SourceTheGraph, model.DNSENS, "alice.eth")

	require.NoError(t, c.CreateResolve(context.Background(), name, addr, resolve))

	// the resolved address may belong to someone else, so it lands as an
	// isolated vertex ahead of the edge write
	require.Equal(t, []string{"isolated", "graph", "graph"}, s.calls)
	last := s.payloads[len(s.payloads)-1]
	require.Contains(t, last.Edges[model.VertexIdentity]["ens,alice.eth"], model.EdgeResolve)
}

func TestCreateReverseAndContractResolves(t *testing.T) {
	c, s := newRecordServer(t)
	addr := model.NewIdentity(model.PlatformEthereum, "0xabc")
	name := model.NewIdentity(model.PlatformENS, "alice.eth")
	contract := model.NewContract(model.ChainEthereum, model.CategoryENS, "0xens")
	resolve := model.NewResolve(model.SourceTheGraph, model.DNSENS, "alice.eth")

	require.NoError(t, c.CreateReverseResolve(context.Background(), addr, name, resolve))
	require.NoError(t, c.CreateContractResolve(context.Background(), contract, addr, resolve))
	require.NoError(t, c.CreateContractReverseResolve(context.Background(), addr, contract, resolve))

	var types []string
	for _, p := range s.payloads {
		for _, byKey := range p.Edges {
			for _, byType := range byKey {
				for et := range byType {
					types = append(types, et)
				}
			}
		}
	}
	assert.Contains(t, types, model.EdgeReverseResolve)
	assert.Contains(t, types, model.EdgeResolveContract)
	assert.Contains(t, types, model.EdgeReverseResolveContract)
}
