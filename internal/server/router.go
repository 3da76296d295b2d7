package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/relationgraph-backend/internal/handlers"
)

type RouterConfig struct {
	IdentityHandler *handlers.IdentityHandler
	DomainHandler   *handlers.DomainHandler
	QueryHandler    *handlers.QueryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("relationgraph"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	}))

	router.GET("/healthz", handlers.HealthCheck)

	v1 := router.Group("/v1")
	{
		v1.GET("/identity", cfg.IdentityHandler.GetIdentity)
		v1.GET("/graph", cfg.IdentityHandler.GetGraph)
		v1.GET("/relation", cfg.IdentityHandler.GetRelation)
		v1.GET("/domain/resolve", cfg.DomainHandler.Resolve)
		v1.GET("/domain/reverse", cfg.DomainHandler.Reverse)
		v1.GET("/domain/search", cfg.DomainHandler.Search)
		v1.GET("/query/:name", cfg.QueryHandler.Run)
	}

	return router
}
