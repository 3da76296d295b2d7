package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/relationgraph-backend/internal/graphdb"
	"github.com/yungbote/relationgraph-backend/internal/handlers"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/server"
	"github.com/yungbote/relationgraph-backend/internal/upstream"
)

type Handlers struct {
	Identity *handlers.IdentityHandler
	Domain   *handlers.DomainHandler
	Query    *handlers.QueryHandler
}

func wireHandlers(log *logger.Logger, store *graphdb.Client, orch *upstream.Orchestrator, refresher *upstream.Refresher, registry *upstream.Registry, catalog *graphdb.Catalog) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Identity: handlers.NewIdentityHandler(log, store, orch, refresher),
		Domain:   handlers.NewDomainHandler(log, store, orch, registry, refresher),
		Query:    handlers.NewQueryHandler(log, store, catalog),
	}
}

func wireRouter(h Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		IdentityHandler: h.Identity,
		DomainHandler:   h.Domain,
		QueryHandler:    h.Query,
	})
}
