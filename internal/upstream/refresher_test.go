package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/relationgraph-backend/internal/cache"
	"github.com/yungbote/relationgraph-backend/internal/graphdb"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestRefresherFetchesEnqueuedTarget(t *testing.T) {
	f := &stubFetcher{name: "stub"}
	store := testStore(t, nil)
	o := NewOrchestrator(logger.NewNop(), NewRegistry(logger.NewNop(), f), store, cache.NewLocalLock())

	r := NewRefresher(logger.NewNop(), o, store, 2, 8, 0)
	r.Start(context.Background())
	defer r.Stop()

	require.True(t, r.Enqueue(RefreshJob{Target: NewIdentity(model.PlatformTwitter, "alice")}))
	waitFor(t, func() bool { return f.callCount() == 1 })
}

func TestRefresherPurgeDeletesBeforeRefetch(t *testing.T) {
	var (
		mu      sync.Mutex
		deletes []string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/graph/SocialGraph", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": false})
	})
	mux.HandleFunc("/query/SocialGraph/delete_graph_inner_connection", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		deletes = append(deletes, r.URL.Query().Get("p"))
		mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"error": false})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	store, err := graphdb.New(graphdb.Config{
		Host:             srv.URL,
		AllocationHost:   srv.URL,
		SocialGraphToken: "tok",
	}, logger.NewNop())
	require.NoError(t, err)

	f := &stubFetcher{name: "stub"}
	o := NewOrchestrator(logger.NewNop(), NewRegistry(logger.NewNop(), f), store, cache.NewLocalLock())
	r := NewRefresher(logger.NewNop(), o, store, 1, 8, 10*time.Millisecond)
	r.Start(context.Background())
	defer r.Stop()

	require.True(t, r.Enqueue(RefreshJob{Target: NewIdentity(model.PlatformENS, "Vitalik.ETH"), Purge: true}))
	waitFor(t, func() bool { return f.callCount() == 1 })

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, deletes, 1)
	assert.Equal(t, "ens,vitalik.eth", deletes[0])
}

func TestRefresherDropsWhenQueueFull(t *testing.T) {
	f := &stubFetcher{name: "stub"}
	store := testStore(t, nil)
	o := NewOrchestrator(logger.NewNop(), NewRegistry(logger.NewNop(), f), store, cache.NewLocalLock())
	r := NewRefresher(logger.NewNop(), o, store, 1, 1, 0)
	// workers never started, so the buffered slot is all there is

	assert.True(t, r.Enqueue(RefreshJob{Target: NewIdentity(model.PlatformTwitter, "a")}))
	assert.False(t, r.Enqueue(RefreshJob{Target: NewIdentity(model.PlatformTwitter, "b")}))
}

func TestRefresherDropsEnqueueAfterStop(t *testing.T) {
	f := &stubFetcher{name: "stub"}
	store := testStore(t, nil)
	o := NewOrchestrator(logger.NewNop(), NewRegistry(logger.NewNop(), f), store, cache.NewLocalLock())
	r := NewRefresher(logger.NewNop(), o, store, 1, 8, 0)
	r.Start(context.Background())
	r.Stop()

	// a handler racing the shutdown gets a drop, not a send on a closed queue
	assert.False(t, r.Enqueue(RefreshJob{Target: NewIdentity(model.PlatformTwitter, "late")}))
	r.Stop()
}
