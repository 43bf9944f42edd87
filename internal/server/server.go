package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/investi-gate/portal-sub000/internal/config"
	"github.com/investi-gate/portal-sub000/internal/core"
	"github.com/investi-gate/portal-sub000/internal/core/community"
	"github.com/investi-gate/portal-sub000/internal/core/layout"
	"github.com/investi-gate/portal-sub000/internal/driver"
	"github.com/investi-gate/portal-sub000/internal/logger"
	"github.com/investi-gate/portal-sub000/internal/store"
	"github.com/investi-gate/portal-sub000/internal/store/memgraph"
	"github.com/investi-gate/portal-sub000/internal/store/memory"
	"github.com/investi-gate/portal-sub000/internal/store/postgres"
)

type Server struct {
	Portal   *core.Portal
	validate *validator.Validate
}

func NewServer(portal *core.Portal) *Server {
	return &Server{
		Portal:   portal,
		validate: newValidator(),
	}
}

// NewFromConfig opens the configured store and builds the portal on top of it.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	s, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := layout.Options{
		NodeSpacing:      cfg.Layout.NodeSpacing,
		LevelHeight:      cfg.Layout.LevelHeight,
		ComponentSpacing: cfg.Layout.ComponentSpacing,
	}
	portal := core.NewPortal(s, community.NewDetector(cfg.Analysis.ClusterAlgorithm), opts)
	return NewServer(portal), nil
}

// OpenStore connects the backend named in the config.
func OpenStore(ctx context.Context, cfg *config.Config) (store.GraphStore, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.New(), nil
	case config.BackendMemgraph:
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			return nil, err
		}
		if err := d.BuildIndices(ctx); err != nil {
			return nil, err
		}
		return memgraph.New(d), nil
	case config.BackendPostgres:
		return postgres.Open(ctx, cfg.Postgres.URL)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func (s *Server) Close(ctx context.Context) error {
	return s.Portal.Store.Close(ctx)
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())

	r.GET("/healthz", s.Health)

	r.POST("/analyze", s.Analyze)
	r.GET("/search", s.Search)
	r.GET("/layout", s.Layout)

	entities := r.Group("/entities")
	entities.GET("", s.ListEntities)
	entities.POST("", s.CreateEntity)
	entities.GET("/:id", s.GetEntity)
	entities.DELETE("/:id", s.DeleteEntity)

	relations := r.Group("/relations")
	relations.GET("", s.ListRelations)
	relations.POST("", s.CreateRelation)
	relations.GET("/:id", s.GetRelation)
	relations.PUT("/:id", s.UpdateRelation)
	relations.DELETE("/:id", s.DeleteRelation)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// respondError maps store and analysis errors to status codes. Anything
// unrecognised is logged and reported as a 500 without details.
func respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, store.ErrInvalidRelation),
		errors.Is(err, store.ErrUnknownEndpoint),
		errors.Is(err, core.ErrUnknownAnalysisType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(msg, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
