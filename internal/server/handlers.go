package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/investi-gate/portal-sub000/internal/core"
	"github.com/investi-gate/portal-sub000/internal/store"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Type == "" {
		req.Type = string(core.AnalysisAll)
	}
	t, err := core.ParseAnalysisType(req.Type)
	if err != nil {
		respondError(c, err, "Failed to analyze")
		return
	}

	results, err := s.Portal.Analyze(c.Request.Context(), t)
	if err != nil {
		respondError(c, err, "Failed to analyze")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) Search(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSearchLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be between 1 and %d", maxSearchLimit)})
			return
		}
		limit = n
	}

	includeRelations := false
	if raw := c.Query("includeRelations"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "includeRelations must be a boolean"})
			return
		}
		includeRelations = b
	}

	res, err := s.Portal.Search(c.Request.Context(), query, limit, includeRelations)
	if err != nil {
		respondError(c, err, "Failed to search")
		return
	}

	body := gin.H{"results": res.Entities, "query": query}
	if includeRelations {
		body["relations"] = res.Relations
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) Layout(c *gin.Context) {
	g, err := s.Portal.Layout(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute layout")
		return
	}
	c.JSON(http.StatusOK, g)
}

func (s *Server) ListEntities(c *gin.Context) {
	entities, err := s.Portal.Store.ListEntities(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list entities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entities": entities})
}

func (s *Server) GetEntity(c *gin.Context) {
	e, err := s.Portal.Store.GetEntity(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get entity")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) CreateEntity(c *gin.Context) {
	var req CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err), "Failed to create entity")
		return
	}

	e, err := s.Portal.Store.CreateEntity(c.Request.Context(), req.Entity())
	if err != nil {
		respondError(c, err, "Failed to create entity")
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (s *Server) DeleteEntity(c *gin.Context) {
	if err := s.Portal.Store.DeleteEntity(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete entity")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListRelations(c *gin.Context) {
	relations, err := s.Portal.Store.ListRelations(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list relations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"relations": relations})
}

func (s *Server) GetRelation(c *gin.Context) {
	r, err := s.Portal.Store.GetRelation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get relation")
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) CreateRelation(c *gin.Context) {
	req, ok := s.bindRelation(c)
	if !ok {
		return
	}
	r, err := s.Portal.Store.CreateRelation(c.Request.Context(), req.Relation())
	if err != nil {
		respondError(c, err, "Failed to create relation")
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) UpdateRelation(c *gin.Context) {
	req, ok := s.bindRelation(c)
	if !ok {
		return
	}
	req.ID = c.Param("id")
	r, err := s.Portal.Store.UpdateRelation(c.Request.Context(), req.Relation())
	if err != nil {
		respondError(c, err, "Failed to update relation")
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) DeleteRelation(c *gin.Context) {
	if err := s.Portal.Store.DeleteRelation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete relation")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) bindRelation(c *gin.Context) (RelationRequest, bool) {
	var req RelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return req, false
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", store.ErrInvalidRelation, err), "Failed to validate relation")
		return req, false
	}
	return req, true
}
