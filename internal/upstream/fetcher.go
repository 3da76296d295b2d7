package upstream

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
)

// EdgeItem is one edge produced by a connector, carried together with
// both endpoint vertices so the upsert builder can merge vertex
// attributes across connectors. A nil To marks a vertex-only item.
type EdgeItem struct {
	From    model.Vertex
	To      model.Vertex
	Wrapper model.EdgeWrapper
}

// EdgeList accumulates connector output for a later batch upsert.
type EdgeList []EdgeItem

// Add appends one edge with its endpoints.
func (l *EdgeList) Add(from, to model.Vertex, w model.EdgeWrapper) {
	*l = append(*l, EdgeItem{From: from, To: to, Wrapper: w})
}

// AddVertex appends a vertex with no edge. A connector uses this for an
// account it can vouch for but found nothing to link to; the
// orchestrator writes these as isolated vertices.
func (l *EdgeList) AddVertex(v model.Vertex) {
	*l = append(*l, EdgeItem{From: v})
}

// Fetcher is one upstream connector. BatchFetch returns the follow-up
// targets it discovered plus the edges to persist; it must not write to
// the store itself. A connector that finds nothing returns empty slices
// and a nil error, so callers can tell "no data" from "upstream broke".
type Fetcher interface {
	Name() string
	CanFetch(target Target) bool
	BatchFetch(ctx context.Context, target Target) ([]Target, EdgeList, error)
}

// DomainSearcher is implemented by connectors whose naming system can
// answer "who owns {label} under your TLD". Results come back as
// collection-membership edges carrying registration status.
type DomainSearcher interface {
	DomainSearch(ctx context.Context, label string) (EdgeList, error)
}

// Registry holds every registered connector and fans a target out to
// all of them that claim it.
type Registry struct {
	log      *logger.Logger
	fetchers []Fetcher
}

func NewRegistry(log *logger.Logger, fetchers ...Fetcher) *Registry {
	return &Registry{
		log:      log.With("component", "upstream_registry"),
		fetchers: fetchers,
	}
}

// Fetchers returns the registered connectors.
func (r *Registry) Fetchers() []Fetcher { return r.fetchers }

// BatchFetch runs every connector that can handle the target and merges
// their results. A connector failure is logged and skipped; one broken
// upstream never poisons the others, so the error return is reserved
// for the case where every claiming connector failed.
func (r *Registry) BatchFetch(ctx context.Context, target Target) ([]Target, EdgeList, error) {
	var (
		mu       sync.Mutex
		next     []Target
		edges    EdgeList
		claimed  int
		failures int
		lastErr  error
	)

	var g errgroup.Group
	for _, f := range r.fetchers {
		if !f.CanFetch(target) {
			continue
		}
		claimed++
		g.Go(func() error {
			found, fetched, err := f.BatchFetch(ctx, target)
			if err != nil {
				r.log.Warn("connector fetch failed",
					"connector", f.Name(),
					"target", target.String(),
					"error", err,
				)
				mu.Lock()
				failures++
				lastErr = err
				mu.Unlock()
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

	if claimed > 0 && failures == claimed {
		return nil, nil, lastErr
	}
	return next, edges, nil
}

// DomainSearch asks every searching connector about a bare label and
// merges the membership edges. Connector failures are logged and
// skipped, same isolation policy as BatchFetch.
func (r *Registry) DomainSearch(ctx context.Context, label string) EdgeList {
	var (
		mu    sync.Mutex
		edges EdgeList
		g     errgroup.Group
	)
	for _, f := range r.fetchers {
		s, ok := f.(DomainSearcher)
		if !ok {
			continue
		}
		name := f.Name()
		g.Go(func() error {
			found, err := s.DomainSearch(ctx, label)
			if err != nil {
				r.log.Warn("connector domain search failed",
					"connector", name, "label", label, "error", err)
				return nil
			}
			mu.Lock()
			edges = append(edges, found...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return edges
}
