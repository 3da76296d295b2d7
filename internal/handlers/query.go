package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/relationgraph-backend/internal/graphdb"
	"github.com/yungbote/relationgraph-backend/internal/logger"
)

// QueryHandler passes allowlisted named queries through to the store.
// Anything the catalog does not list is rejected up front.
type QueryHandler struct {
	log     *logger.Logger
	store   *graphdb.Client
	catalog *graphdb.Catalog
}

func NewQueryHandler(log *logger.Logger, store *graphdb.Client, catalog *graphdb.Catalog) *QueryHandler {
	return &QueryHandler{
		log:     log.With("handler", "QueryHandler"),
		store:   store,
		catalog: catalog,
	}
}

// GET /v1/query/:name
func (h *QueryHandler) Run(c *gin.Context) {
	name := c.Param("name")
	params := c.Request.URL.Query()

	graph, err := h.catalog.Resolve(name, params)
	if err != nil {
		RespondError(c, err)
		return
	}

	var results json.RawMessage
	if err := h.store.RunQuery(c.Request.Context(), graph, name, params, &results); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"query": name, "results": results})
}
