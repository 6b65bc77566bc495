package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daikw/meetbot/internal/persona"
	"github.com/daikw/meetbot/internal/store"
)

type personaRequest struct {
	Content string `json:"content" binding:"required"`
}

type personaSummary struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) listPersonas(c *gin.Context) {
	entries, err := s.personas.LoadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]personaSummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, personaSummary{
			Key:         e.Key,
			Name:        e.Persona.Name,
			Description: e.Persona.Description,
		})
	}

	c.JSON(http.StatusOK, gin.H{"personas": summaries})
}

func (s *Server) createPersona(c *gin.Context) {
	var req personaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, diags, err := persona.Normalize(req.Content)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	key := store.Key(p.Name)
	if s.personas.Exists(key) {
		c.JSON(http.StatusConflict, gin.H{"error": "persona already exists", "key": key})
		return
	}

	if err := s.personas.Save(key, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key":         key,
		"persona":     p,
		"diagnostics": diags,
	})
}

func (s *Server) getPersona(c *gin.Context) {
	key := c.Param("key")

	raw, err := s.personas.Raw(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "persona not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	p, diags, err := persona.Normalize(raw)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "raw": raw})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":         key,
		"persona":     p,
		"diagnostics": diags,
		"raw":         raw,
	})
}

func (s *Server) updatePersona(c *gin.Context) {
	key := c.Param("key")
	if !s.personas.Exists(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "persona not found"})
		return
	}

	var req personaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, diags, err := persona.Normalize(req.Content)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := s.personas.Save(key, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":         key,
		"persona":     p,
		"diagnostics": diags,
	})
}

func (s *Server) deletePersona(c *gin.Context) {
	key := c.Param("key")

	if err := s.personas.Delete(key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "persona not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) validatePersona(c *gin.Context) {
	var req personaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, diags, err := persona.Normalize(req.Content)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":       true,
		"persona":     p,
		"diagnostics": diags,
	})
}
