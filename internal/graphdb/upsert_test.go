package graphdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/relationgraph-backend/internal/model"
)

func TestBuilderGroupsVerticesAndEdges(t *testing.T) {
	alice := model.NewIdentity(model.PlatformTwitter, "alice")
	wallet := model.NewIdentity(model.PlatformEthereum, "0xAbC")
	proof := model.NewProof(model.SourceNextID, model.LevelVeryConfident)

	b := NewBuilder()
	b.AddEdge(alice, wallet, proof.Forward(alice, wallet))
	b.AddEdge(wallet, alice, proof.Backward(wallet, alice))
	p := b.Build()

	identities := p.Vertices[model.VertexIdentity]
	require.Len(t, identities, 2)
	require.Contains(t, identities, "twitter,alice")
	require.Contains(t, identities, "ethereum,0xabc")

	fwd := p.Edges[model.VertexIdentity]["twitter,alice"][model.EdgeProofForward][model.VertexIdentity]
	require.Contains(t, fwd, "ethereum,0xabc")
	back := p.Edges[model.VertexIdentity]["ethereum,0xabc"][model.EdgeProofBackward][model.VertexIdentity]
	require.Contains(t, back, "twitter,alice")
}

func TestBuilderDeduplicatesSameEdgeTriple(t *testing.T) {
	owner := model.NewIdentity(model.PlatformEthereum, "0xabc")
	ens := model.NewIdentity(model.PlatformENS, "vitalik.eth")
	hold := model.NewHold(model.SourceTheGraph, "vitalik.eth")

	b := NewBuilder()
	b.AddEdge(owner, ens, hold.IdentityWrapper(owner, ens))
	b.AddEdge(owner, ens, hold.IdentityWrapper(owner, ens))
	p := b.Build()

	targets := p.Edges[model.VertexIdentity][owner.PrimaryKey()][model.EdgeHoldIdentity][model.VertexIdentity]
	assert.Len(t, targets, 1)
}

func TestBuilderMergesIdentityReverseWithOr(t *testing.T) {
	plain := model.NewIdentity(model.PlatformENS, "vitalik.eth")
	primary := model.NewIdentity(model.PlatformENS, "vitalik.eth")
	primary.Reverse = true
	owner := model.NewIdentity(model.PlatformEthereum, "0xabc")
	hold := model.NewHold(model.SourceTheGraph, "vitalik.eth")
	resolve := model.NewResolve(model.SourceTheGraph, model.DNSENS, "vitalik.eth")

	// reverse=true must survive regardless of which record lands last
	b := NewBuilder()
	b.AddEdge(owner, primary, resolve.ReverseWrapper(owner, primary))
	b.AddEdge(owner, plain, hold.IdentityWrapper(owner, plain))
	p := b.Build()

	attrs := p.Vertices[model.VertexIdentity]["ens,vitalik.eth"]
	assert.Equal(t, true, attrs["reverse"].Value)
}

func TestBuilderKeepsFirstNonEmptyDisplayName(t *testing.T) {
	named := model.NewIdentity(model.PlatformTwitter, "alice")
	named.DisplayName = "Alice"
	anon := model.NewIdentity(model.PlatformTwitter, "alice")
	peer := model.NewIdentity(model.PlatformEthereum, "0xabc")
	proof := model.NewProof(model.SourceNextID, model.LevelNeutral)

	b := NewBuilder()
	b.AddEdge(named, peer, proof.Forward(named, peer))
	b.AddEdge(anon, peer, proof.Forward(anon, peer))
	p := b.Build()

	attrs := p.Vertices[model.VertexIdentity]["twitter,alice"]
	assert.Equal(t, "Alice", attrs["display_name"].Value)
}

func TestBuilderMergeOrderIndependentForDisjointAttributes(t *testing.T) {
	build := func(order []*model.Identity) model.AttributeMap {
		peer := model.NewIdentity(model.PlatformEthereum, "0xabc")
		proof := model.NewProof(model.SourceNextID, model.LevelNeutral)
		b := NewBuilder()
		for _, v := range order {
			b.AddEdge(v, peer, proof.Forward(v, peer))
		}
		return b.Build().Vertices[model.VertexIdentity]["twitter,alice"]
	}

	withAvatar := model.NewIdentity(model.PlatformTwitter, "alice")
	withAvatar.AvatarURL = "https://example.com/a.png"
	withName := model.NewIdentity(model.PlatformTwitter, "alice")
	withName.DisplayName = "Alice"
	// pin the write-once fields so both orders start from identical records
	withName.UUID = withAvatar.UUID
	withName.AddedAt = withAvatar.AddedAt
	withName.UpdatedAt = withAvatar.UpdatedAt

	ab := build([]*model.Identity{withAvatar, withName})
	ba := build([]*model.Identity{withName, withAvatar})
	assert.Equal(t, ab["avatar_url"], ba["avatar_url"])
	assert.Equal(t, ab["display_name"], ba["display_name"])
}

func TestConnectedIdentityIDsAndReplaceGraphID(t *testing.T) {
	graph := model.NewIdentitiesGraph()
	a := model.NewIdentity(model.PlatformTwitter, "alice")
	w := model.NewIdentity(model.PlatformEthereum, "0xabc")

	b := NewBuilder()
	hyper := model.HyperEdge{}
	b.AddEdge(graph, a, hyper.Wrapper(graph, a))
	b.AddEdge(graph, w, hyper.Wrapper(graph, w))
	p := b.Build()

	vids := p.ConnectedIdentityIDs()
	assert.ElementsMatch(t, []string{"twitter,alice", "ethereum,0xabc"}, vids)

	p.ReplaceGraphID("component-42", 1700000000000000)
	require.Contains(t, p.Vertices[model.VertexIdentitiesGraph], "component-42")
	require.NotContains(t, p.Vertices[model.VertexIdentitiesGraph], model.FakeGraphID)
	assert.Equal(t, "component-42", p.Vertices[model.VertexIdentitiesGraph]["component-42"]["id"].Value)
	assert.Equal(t, int64(1700000000000000), p.Vertices[model.VertexIdentitiesGraph]["component-42"]["updated_nanosecond"].Value)
	require.Contains(t, p.Edges[model.VertexIdentitiesGraph], "component-42")
}
