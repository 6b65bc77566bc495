package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/daikw/meetbot/internal/transcript"
	"github.com/daikw/meetbot/internal/webhook"
)

func (s *Server) handleWebhook(c *gin.Context) {
	event, err := webhook.ParseEvent(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.dispatcher.Handle(c.Request.Context(), event); err != nil {
		log.Error().Err(err).Str("event", event.Event).Msg("Failed to handle webhook event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listTranscripts(c *gin.Context) {
	ids, err := s.transcripts.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcripts": ids})
}

func (s *Server) getTranscript(c *gin.Context) {
	t, err := s.transcripts.Get(c.Param("meeting_id"))
	if err != nil {
		if errors.Is(err, transcript.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transcript not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}
