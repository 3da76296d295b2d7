package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
	"github.com/yungbote/relationgraph-backend/internal/graphdb"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
	"github.com/yungbote/relationgraph-backend/internal/upstream"
)

const (
	defaultExpandDepth = 3
	maxExpandDepth     = 10
)

type IdentityHandler struct {
	log       *logger.Logger
	store     *graphdb.Client
	orch      *upstream.Orchestrator
	refresher *upstream.Refresher
}

func NewIdentityHandler(log *logger.Logger, store *graphdb.Client, orch *upstream.Orchestrator, refresher *upstream.Refresher) *IdentityHandler {
	return &IdentityHandler{
		log:       log.With("handler", "IdentityHandler"),
		store:     store,
		orch:      orch,
		refresher: refresher,
	}
}

func parseIdentityParams(c *gin.Context, platformKey, identityKey string) (model.Platform, string, error) {
	platform := model.ParsePlatform(c.Query(platformKey))
	identity := c.Query(identityKey)
	if platform == model.PlatformUnknown {
		return platform, identity, apperr.Param("unknown platform %q", c.Query(platformKey))
	}
	if identity == "" {
		return platform, identity, apperr.Param("%s is required", identityKey)
	}
	return platform, identity, nil
}

func parseDepth(c *gin.Context) int {
	depth, err := strconv.Atoi(c.DefaultQuery("depth", strconv.Itoa(defaultExpandDepth)))
	if err != nil || depth < 1 {
		return defaultExpandDepth
	}
	if depth > maxExpandDepth {
		return maxExpandDepth
	}
	return depth
}

type identityResponse struct {
	Identity *graphdb.ExpandIdentity `json:"identity"`
	Stale    bool                    `json:"stale"`
}

// GET /v1/identity?platform=&identity=
//
// A miss triggers one synchronous fetch pass before giving up; a stale
// hit is served as-is with a background refresh queued behind it.
func (h *IdentityHandler) GetIdentity(c *gin.Context) {
	platform, identity, err := parseIdentityParams(c, "platform", "identity")
	if err != nil {
		RespondError(c, err)
		return
	}
	ctx := c.Request.Context()
	target := upstream.NewIdentity(platform, identity)

	found, err := h.store.FindIdentity(ctx, platform, identity)
	if apperr.IsNotFound(err) {
		if ferr := h.orch.FetchOne(ctx, target); ferr != nil {
			h.log.Warn("first-lookup fetch failed", "target", target.String(), "error", ferr)
		}
		found, err = h.store.FindIdentity(ctx, platform, identity)
	}
	if err != nil {
		RespondError(c, err)
		return
	}

	stale := found.Record.Attributes.IsOutdated()
	if stale {
		h.refresher.Enqueue(upstream.RefreshJob{Target: target})
	}
	RespondOK(c, identityResponse{Identity: found, Stale: stale})
}

// GET /v1/graph?platform=&identity=&depth=
func (h *IdentityHandler) GetGraph(c *gin.Context) {
	platform, identity, err := parseIdentityParams(c, "platform", "identity")
	if err != nil {
		RespondError(c, err)
		return
	}
	depth := parseDepth(c)

	vertices, err := h.store.ExpandGraph(c.Request.Context(), platform, identity, depth)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"depth": depth, "vertices": vertices})
}

// GET /v1/relation?source_platform=&source=&target_platform=&target=&depth=
func (h *IdentityHandler) GetRelation(c *gin.Context) {
	srcPlatform, src, err := parseIdentityParams(c, "source_platform", "source")
	if err != nil {
		RespondError(c, err)
		return
	}
	dstPlatform, dst, err := parseIdentityParams(c, "target_platform", "target")
	if err != nil {
		RespondError(c, err)
		return
	}
	depth := parseDepth(c)

	path, err := h.store.RelationBetween(c.Request.Context(), srcPlatform, src, dstPlatform, dst, depth)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, path)
}
