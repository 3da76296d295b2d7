package thegraph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
	"github.com/yungbote/relationgraph-backend/internal/upstream"
)

func subgraphServer(t *testing.T, data map[string]any) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	t.Cleanup(srv.Close)
	return New(Config{URLs: []string{srv.URL}}, logger.NewNop())
}

func domainJSON(name, owner, resolved string) map[string]any {
	d := map[string]any{
		"name":      name,
		"createdAt": "1609459200",
		"registration": map[string]any{
			"expiryDate": "1924992000",
		},
		"events": []map[string]any{{"transactionID": "0xtx1"}},
		"owner":  map[string]any{"id": owner},
	}
	if resolved != "" {
		d["resolvedAddress"] = map[string]any{"id": resolved}
	}
	return d
}

func TestBatchFetchByWalletEmitsHoldAndResolve(t *testing.T) {
	f := subgraphServer(t, map[string]any{
		"domains":        []any{domainJSON("vitalik.eth", "0xAbC", "0xabc")},
		"wrappedDomains": []any{},
	})

	next, edges, err := f.BatchFetch(context.Background(), upstream.NewIdentity(model.PlatformEthereum, "0xAbC"))
	require.NoError(t, err)

	require.Len(t, next, 1)
	assert.Equal(t, upstream.KindNFT, next[0].Kind)
	assert.Equal(t, "vitalik.eth", next[0].TokenID)

	types := map[string]int{}
	for _, e := range edges {
		types[e.Wrapper.Type]++
	}
	assert.Equal(t, 1, types[model.EdgeHoldIdentity])
	assert.Equal(t, 1, types[model.EdgeHoldContract])
	// resolved address matches the owner, so the resolve records land too
	assert.Equal(t, 1, types[model.EdgeResolve])
	assert.Equal(t, 1, types[model.EdgeResolveContract])
}

func TestBatchFetchSkipsResolveWhenAddressDiffers(t *testing.T) {
	f := subgraphServer(t, map[string]any{
		"domains":        []any{domainJSON("vitalik.eth", "0xAbC", "0xdef")},
		"wrappedDomains": []any{},
	})

	_, edges, err := f.BatchFetch(context.Background(), upstream.NewIdentity(model.PlatformEthereum, "0xAbC"))
	require.NoError(t, err)

	for _, e := range edges {
		assert.NotEqual(t, model.EdgeResolve, e.Wrapper.Type)
		assert.NotEqual(t, model.EdgeResolveContract, e.Wrapper.Type)
	}
}

func TestWrappedDomainOwnerOverridesPlainOwner(t *testing.T) {
	f := subgraphServer(t, map[string]any{
		"domains": []any{domainJSON("vitalik.eth", "0xWrapperContract", "")},
		"wrappedDomains": []any{map[string]any{
			"name":   "vitalik.eth",
			"owner":  map[string]any{"id": "0xRealOwner"},
			"domain": domainJSON("vitalik.eth", "0xWrapperContract", ""),
		}},
	})

	next, _, err := f.BatchFetch(context.Background(),
		upstream.NewNFT(model.ChainEthereum, model.CategoryENS, model.CategoryENS.DefaultContractAddress(), "vitalik.eth"))
	require.NoError(t, err)

	require.Len(t, next, 1)
	assert.Equal(t, "0xRealOwner", next[0].Identity)
}

func TestDomainSearchReportsAvailability(t *testing.T) {
	f := subgraphServer(t, map[string]any{
		"domains":        []any{},
		"wrappedDomains": []any{},
	})

	edges, err := f.DomainSearch(context.Background(), "unregisteredlabel")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, model.EdgePartOfCollection, edges[0].Wrapper.Type)

	status, ok := edges[0].Wrapper.Attributes["status"]
	require.True(t, ok)
	assert.Equal(t, model.DomainAvailable.String(), status.Value)
}

func TestCanFetchCoversWalletsAndENSTokens(t *testing.T) {
	f := New(Config{URLs: []string{"http://example.invalid"}}, logger.NewNop())
	assert.True(t, f.CanFetch(upstream.NewIdentity(model.PlatformEthereum, "0xabc")))
	assert.True(t, f.CanFetch(upstream.NewNFT(model.ChainEthereum, model.CategoryENS,
		model.CategoryENS.DefaultContractAddress(), "vitalik.eth")))
	assert.False(t, f.CanFetch(upstream.NewIdentity(model.PlatformTwitter, "alice")))
}
