package farcaster

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

func testFetcher(t *testing.T, profiles []map[string]any) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"farcasterProfile": profiles,
			"farcasterSigner":  profiles,
		}})
	}))
	t.Cleanup(srv.Close)
	return New(Config{URL: srv.URL}, logger.NewNop())
}

func TestBatchFetchLinksSignerWallet(t *testing.T) {
	f := testFetcher(t, []map[string]any{{
		"username": "bob", "displayName": "Bob", "signerAddress": "0xAbC", "fid": 42,
	}})

	next, edges, err := f.BatchFetch(context.Background(), upstream.NewIdentity(model.PlatformFarcaster, "bob"))
	require.NoError(t, err)

	require.Len(t, next, 1)
	assert.Equal(t, model.PlatformEthereum, next[0].Platform)
	assert.Equal(t, "0xabc", next[0].Identity)

	var holds int
	for _, e := range edges {
		if e.Wrapper.Type == model.EdgeHoldIdentity {
			holds++
		}
	}
	assert.Equal(t, 1, holds)
}

func TestBatchFetchAccountWithoutSignerStaysVisible(t *testing.T) {
	f := testFetcher(t, []map[string]any{{
		"username": "bob", "displayName": "Bob", "signerAddress": "", "fid": 42,
	}})

	next, edges, err := f.BatchFetch(context.Background(), upstream.NewIdentity(model.PlatformFarcaster, "bob"))
	require.NoError(t, err)

	assert.Empty(t, next)
	require.Len(t, edges, 1)
	// no wallet to link, so the account comes back as a bare vertex
	assert.Nil(t, edges[0].To)
	assert.Empty(t, edges[0].Wrapper.Type)
	assert.Equal(t, "farcaster,bob", edges[0].From.PrimaryKey())
}
