package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
	"github.com/yungbote/relationgraph-backend/internal/graphdb"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
	"github.com/yungbote/relationgraph-backend/internal/upstream"
)

type DomainHandler struct {
	log       *logger.Logger
	store     *graphdb.Client
	orch      *upstream.Orchestrator
	registry  *upstream.Registry
	refresher *upstream.Refresher
}

func NewDomainHandler(log *logger.Logger, store *graphdb.Client, orch *upstream.Orchestrator, registry *upstream.Registry, refresher *upstream.Refresher) *DomainHandler {
	return &DomainHandler{
		log:       log.With("handler", "DomainHandler"),
		store:     store,
		orch:      orch,
		registry:  registry,
		refresher: refresher,
	}
}

// GET /v1/domain/resolve?system=&name=
func (h *DomainHandler) Resolve(c *gin.Context) {
	system := model.ParseDomainNameSystem(c.Query("system"))
	name := c.Query("name")
	if system == model.DNSUnknown {
		RespondError(c, apperr.Param("unknown name system %q", c.Query("system")))
		return
	}
	if name == "" {
		RespondError(c, apperr.Param("name is required"))
		return
	}
	ctx := c.Request.Context()
	platform := system.Platform()
	target := upstream.NewIdentity(platform, name)

	found, err := h.store.FindIdentity(ctx, platform, name)
	if apperr.IsNotFound(err) {
		if ferr := h.orch.FetchOne(ctx, target); ferr != nil {
			h.log.Warn("domain fetch failed", "target", target.String(), "error", ferr)
		}
		found, err = h.store.FindIdentity(ctx, platform, name)
	}
	if err != nil {
		RespondError(c, err)
		return
	}
	// a stale name is served as-is; the purge job deletes its stored
	// neighborhood and refetches off the request path
	stale := found.Record.Attributes.IsOutdated()
	if stale {
		h.refresher.Enqueue(upstream.RefreshJob{Target: target, Purge: true})
	}
	RespondOK(c, gin.H{
		"system":    system,
		"name":      name,
		"addresses": found.ResolveAddresses,
		"identity":  found.Record,
		"stale":     stale,
	})
}

// GET /v1/domain/reverse?platform=&address=
//
// Returns the identity component narrowed to primary-domain members, so
// the caller sees which names the address chose as its reverse records.
func (h *DomainHandler) Reverse(c *gin.Context) {
	platform, address, err := parseIdentityParams(c, "platform", "address")
	if err != nil {
		RespondError(c, err)
		return
	}
	reverse := true
	graph, err := h.store.FindIdentityGraph(c.Request.Context(), platform, address, &reverse)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, graph)
}

// GET /v1/domain/search?name=
//
// Serves the stored view while the label's grouping vertex is fresh.
// On a miss or an outdated grouping, fans the label out to every
// connector that can answer availability, lands whatever they report,
// and serves the re-read. An outdated grouping is deleted first so
// names that vanished upstream do not linger in the result.
func (h *DomainHandler) Search(c *gin.Context) {
	label := strings.TrimSpace(strings.ToLower(c.Query("name")))
	if label == "" {
		RespondError(c, apperr.Param("name is required"))
		return
	}
	// the label is the bare left-hand side; strip one suffix if given
	if i := strings.IndexByte(label, '.'); i > 0 {
		label = label[:i]
	}
	ctx := c.Request.Context()

	found, err := h.store.DomainAvailableSearch(ctx, label)
	if err == nil && !found.Collection.Attributes.IsOutdated() {
		RespondOK(c, found)
		return
	}
	if err != nil && !apperr.IsNotFound(err) {
		RespondError(c, err)
		return
	}
	if err == nil {
		if derr := h.store.DeleteDomainCollection(ctx, label); derr != nil {
			h.log.Warn("domain collection purge failed", "label", label, "error", derr)
		}
	}

	edges := h.registry.DomainSearch(ctx, label)
	if len(edges) > 0 {
		b := graphdb.NewBuilder()
		for _, e := range edges {
			b.AddEdge(e.From, e.To, e.Wrapper)
		}
		if err := h.store.BatchUpsertDomains(ctx, b); err != nil {
			h.log.Warn("domain search upsert failed", "label", label, "error", err)
		}
	}
	// restamp the grouping vertex even when no connector answered, so
	// the next search inside the TTL serves the stored view
	if err := h.store.UpsertDomainCollection(ctx, label); err != nil {
		h.log.Warn("domain collection upsert failed", "label", label, "error", err)
	}

	result, err := h.store.DomainAvailableSearch(ctx, label)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}
