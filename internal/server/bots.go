package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/daikw/meetbot/internal/baas"
	"github.com/daikw/meetbot/internal/persona"
	"github.com/daikw/meetbot/internal/registry"
	"github.com/daikw/meetbot/internal/store"
)

type launchRequest struct {
	MeetingURL string `json:"meeting_url" binding:"required"`
	Persona    string `json:"persona"`
	BotName    string `json:"bot_name"`
}

func (s *Server) launchBot(c *gin.Context) {
	var req launchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		key string
		p   *persona.Persona
		err error
	)
	if req.Persona != "" {
		key, p, err = s.personas.Get(req.Persona)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "persona not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	} else {
		key, p, err = s.personas.Random()
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no personas available"})
			return
		}
	}

	botName := req.BotName
	if botName == "" {
		botName = p.Name
	}
	entryMessage := p.Metadata.EntryMessage
	if entryMessage == "" {
		entryMessage = persona.DefaultEntryMessage
	}
	textMessage := p.Metadata.TextMessage
	if textMessage == "" {
		textMessage = persona.DefaultTextMessage
	}

	clientID := registry.NewClientID()

	botID, err := s.baas.JoinMeeting(c.Request.Context(), baas.JoinRequest{
		MeetingURL:       req.MeetingURL,
		BotName:          botName,
		BotImage:         p.Metadata.Image,
		EntryMessage:     entryMessage,
		TextMessage:      textMessage,
		WebhookURL:       s.cfg.WebhookURL,
		DeduplicationKey: clientID,
	})
	if err != nil {
		log.Error().Err(err).Str("meeting_url", req.MeetingURL).Msg("Failed to launch bot")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	rec := registry.Record{
		ClientID:     clientID,
		BotID:        botID,
		MeetingURL:   req.MeetingURL,
		Persona:      key,
		EntryMessage: entryMessage,
		TextMessage:  textMessage,
		Status:       registry.StatusJoining,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.registry.Put(c.Request.Context(), rec); err != nil {
		log.Error().Err(err).Str("bot_id", botID).Msg("Failed to record launched bot")
	}

	c.JSON(http.StatusCreated, gin.H{
		"bot_id":    botID,
		"client_id": clientID,
		"persona":   key,
	})
}

func (s *Server) listBots(c *gin.Context) {
	records, err := s.registry.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bots": records})
}

func (s *Server) leaveBot(c *gin.Context) {
	botID := c.Param("id")

	if err := s.baas.Leave(c.Request.Context(), botID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if err := s.registry.Remove(c.Request.Context(), botID); err != nil && !errors.Is(err, registry.ErrNotFound) {
		log.Warn().Err(err).Str("bot_id", botID).Msg("Failed to remove bot record")
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
