package baas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_JoinMeeting(t *testing.T) {
	var captured JoinRequest
	var capturedKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/bots", r.URL.Path)
		capturedKey = r.Header.Get("x-meeting-baas-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(JoinResponse{BotID: "bot-123"})
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	botID, err := c.JoinMeeting(context.Background(), JoinRequest{
		MeetingURL:   "https://meet.google.com/abc-defg-hij",
		BotName:      "Helper",
		EntryMessage: "Hi there!",
	})
	require.NoError(t, err)

	assert.Equal(t, "bot-123", botID)
	assert.Equal(t, "secret", capturedKey)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", captured.MeetingURL)
	assert.Equal(t, "16khz", captured.StreamingAudioFrequency)
}

func TestClient_JoinMeeting_Errors(t *testing.T) {
	t.Run("missing meeting URL", func(t *testing.T) {
		c := NewClient("secret")
		_, err := c.JoinMeeting(context.Background(), JoinRequest{})
		assert.Error(t, err)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient("secret", WithBaseURL(srv.URL))
		_, err := c.JoinMeeting(context.Background(), JoinRequest{MeetingURL: "https://meet.example/x"})
		assert.ErrorContains(t, err, "status 500")
	})

	t.Run("empty bot id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(JoinResponse{})
		}))
		defer srv.Close()

		c := NewClient("secret", WithBaseURL(srv.URL))
		_, err := c.JoinMeeting(context.Background(), JoinRequest{MeetingURL: "https://meet.example/x"})
		assert.ErrorContains(t, err, "no bot ID")
	})
}

func TestClient_Leave(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/bots/bot-123", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("x-meeting-baas-api-key"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	assert.NoError(t, c.Leave(context.Background(), "bot-123"))
	assert.Error(t, c.Leave(context.Background(), ""))
}
