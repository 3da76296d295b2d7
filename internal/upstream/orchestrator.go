package upstream

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/relationgraph-backend/internal/cache"
	"github.com/yungbote/relationgraph-backend/internal/graphdb"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
)

const (
	// defaultConcurrency bounds how many targets one round fetches at once.
	defaultConcurrency = 5
	// fetchLockTTL bounds how long a crashed traversal keeps a target locked.
	fetchLockTTL = 5 * time.Minute
	// zeroAddressPrefix marks burn-range addresses that lead nowhere useful.
	zeroAddressPrefix = "0x000000000000000000000000000000000000"
)

// Orchestrator walks the identity graph outward from seed targets. Each
// round fans the frontier out to every claiming connector, collects the
// follow-up targets they discover, and repeats until the frontier is
// empty or the depth bound is reached. All edges found along the way
// land in the store with one batch upsert at the end; vertex-only
// results go through the isolated-vertex query so a bare account is
// still findable before anything links to it.
type Orchestrator struct {
	log         *logger.Logger
	tracer      trace.Tracer
	registry    *Registry
	store       *graphdb.Client
	lock        cache.FetchLock
	concurrency int
}

func NewOrchestrator(log *logger.Logger, registry *Registry, store *graphdb.Client, lock cache.FetchLock) *Orchestrator {
	return &Orchestrator{
		log:         log.With("component", "orchestrator"),
		tracer:      otel.Tracer("upstream"),
		registry:    registry,
		store:       store,
		lock:        lock,
		concurrency: defaultConcurrency,
	}
}

// FetchOne fetches a single target and everything one hop out from it.
func (o *Orchestrator) FetchOne(ctx context.Context, target Target) error {
	return o.FetchAll(ctx, []Target{target}, 1)
}

// FetchAll runs the traversal from the given seeds. depth > 0 bounds
// how many rounds run inline; when the bound is hit with frontier
// remaining, the rest of the traversal continues in a detached
// goroutine so the caller gets its answer without waiting for the long
// tail. depth <= 0 means unbounded.
func (o *Orchestrator) FetchAll(ctx context.Context, seeds []Target, depth int) error {
	ctx, span := o.tracer.Start(ctx, "upstream.FetchAll",
		trace.WithAttributes(
			attribute.Int("seeds", len(seeds)),
			attribute.Int("depth", depth),
		))
	defer span.End()

	// drop seeds another traversal is already working on; the deferred
	// release covers every exit path, including an Acquire error partway
	// through claiming
	var claimed []Target
	defer func() {
		for _, t := range claimed {
			if err := o.lock.Release(context.WithoutCancel(ctx), t.String()); err != nil {
				o.log.Warn("fetch lock release failed", "target", t.String(), "error", err)
			}
		}
	}()
	for _, t := range seeds {
		ok, err := o.lock.Acquire(ctx, t.String(), fetchLockTTL)
		if err != nil {
			return err
		}
		if !ok {
			o.log.Debug("target already being fetched, skipping", "target", t.String())
			continue
		}
		claimed = append(claimed, t)
	}
	if len(claimed) == 0 {
		return nil
	}

	processed := map[string]bool{}
	var edges EdgeList
	frontier := claimed

	for round := 1; len(frontier) > 0; round++ {
		var batch []Target
		for _, t := range frontier {
			if processed[t.Key()] {
				continue
			}
			processed[t.Key()] = true
			batch = append(batch, t)
		}
		if len(batch) == 0 {
			break
		}

		found, roundEdges := o.fetchRound(ctx, batch, round)
		edges = append(edges, roundEdges...)

		frontier = frontier[:0]
		for _, t := range found {
			if processed[t.Key()] {
				continue
			}
			if t.Kind == KindIdentity && t.Platform == model.PlatformEthereum &&
				strings.HasPrefix(strings.ToLower(t.Identity), zeroAddressPrefix) {
				continue
			}
			frontier = append(frontier, t)
		}

		if depth > 0 && round >= depth && len(frontier) > 0 {
			rest := make([]Target, len(frontier))
			copy(rest, frontier)
			o.log.Info("depth bound reached, continuing traversal in background",
				"round", round, "remaining", len(rest))
			go func() {
				bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Minute)
				defer cancel()
				if err := o.FetchAll(bctx, rest, 0); err != nil {
					o.log.Warn("background traversal failed", "error", err)
				}
			}()
			break
		}
	}

	if len(edges) == 0 {
		return nil
	}
	b := graphdb.NewBuilder()
	connected := map[string]bool{}
	var isolated []*model.Identity
	for _, e := range edges {
		if e.To == nil {
			if id, ok := e.From.(*model.Identity); ok {
				isolated = append(isolated, id)
			}
			continue
		}
		b.AddEdge(e.From, e.To, e.Wrapper)
		connected[e.From.PrimaryKey()] = true
		connected[e.To.PrimaryKey()] = true
	}
	if !b.Empty() {
		if err := o.store.BatchUpsert(ctx, b); err != nil {
			return err
		}
	}
	// vertex-only results land through the dedicated query, unless some
	// edge in the same traversal already carries the vertex
	written := map[string]bool{}
	for _, id := range isolated {
		key := id.PrimaryKey()
		if connected[key] || written[key] {
			continue
		}
		written[key] = true
		if err := o.store.CreateIsolatedIdentity(ctx, id); err != nil {
			o.log.Warn("isolated vertex upsert failed", "v_id", key, "error", err)
		}
	}
	o.log.Info("traversal persisted",
		"seeds", len(claimed), "edges", len(edges)-len(isolated), "isolated", len(isolated))
	return nil
}

// fetchRound fetches one frontier with bounded concurrency. A failed
// target is logged and skipped so the rest of the round still lands.
func (o *Orchestrator) fetchRound(ctx context.Context, batch []Target, round int) ([]Target, EdgeList) {
	ctx, span := o.tracer.Start(ctx, "upstream.fetchRound",
		trace.WithAttributes(
			attribute.Int("round", round),
			attribute.Int("targets", len(batch)),
		))
	defer span.End()

	var (
		g     errgroup.Group
		mu    sync.Mutex
		next  []Target
		edges EdgeList
	)
	g.SetLimit(o.concurrency)
	for _, t := range batch {
		g.Go(func() error {
			found, fetched, err := o.registry.BatchFetch(ctx, t)
			if err != nil {
				o.log.Warn("target fetch failed", "target", t.String(), "round", round, "error", err)
				return nil
			}
			mu.Lock()
			next = append(next, found...)
			edges = append(edges, fetched...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return next, edges
}
