package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daikw/meetbot/internal/baas"
	"github.com/daikw/meetbot/internal/registry"
	"github.com/daikw/meetbot/internal/store"
)

const helperDoc = `# Helper

A friendly assistant for meetings.

## Characteristics
- Helpful

## Metadata
- entry_message: Hello!
`

func newHandlers(t *testing.T) (*Handlers, *registry.Registry) {
	t.Helper()

	baasSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/bots":
			json.NewEncoder(w).Encode(baas.JoinResponse{BotID: "bot-1"})
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/bots/"):
			json.NewEncoder(w).Encode(baas.LeaveResponse{OK: true})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(baasSrv.Close)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "helper"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helper", "README.md"), []byte(helperDoc), 0o644))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	reg := registry.New(rdb)

	client := baas.NewClient("test-key", baas.WithBaseURL(baasSrv.URL))
	return NewHandlers(store.New(dir), client, reg, "https://console.example.com/webhooks/meetingbaas"), reg
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()

	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func TestHandleListPersonas(t *testing.T) {
	h, _ := newHandlers(t)

	res, err := h.HandleListPersonas(context.Background(), callReq(nil))
	require.NoError(t, err)

	out := resultJSON(t, res)
	assert.Equal(t, float64(1), out["count"])
}

func TestHandleGetPersona(t *testing.T) {
	h, _ := newHandlers(t)

	res, err := h.HandleGetPersona(context.Background(), callReq(map[string]any{"name": "Helper"}))
	require.NoError(t, err)

	out := resultJSON(t, res)
	assert.Equal(t, "helper", out["key"])

	res, err = h.HandleGetPersona(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleValidatePersona(t *testing.T) {
	h, _ := newHandlers(t)

	res, err := h.HandleValidatePersona(context.Background(), callReq(map[string]any{"content": helperDoc}))
	require.NoError(t, err)
	out := resultJSON(t, res)
	assert.Equal(t, true, out["valid"])

	res, err = h.HandleValidatePersona(context.Background(), callReq(map[string]any{"content": "no title"}))
	require.NoError(t, err)
	out = resultJSON(t, res)
	assert.Equal(t, false, out["valid"])
}

func TestHandleLaunchAndLeaveBot(t *testing.T) {
	h, reg := newHandlers(t)

	res, err := h.HandleLaunchBot(context.Background(), callReq(map[string]any{
		"meeting_url": "https://meet.example.com/abc",
		"persona":     "Helper",
	}))
	require.NoError(t, err)

	out := resultJSON(t, res)
	assert.Equal(t, "bot-1", out["bot_id"])
	assert.Equal(t, "helper", out["persona"])

	rec, err := reg.ByBotID(context.Background(), "bot-1")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", rec.EntryMessage)

	res, err = h.HandleLeaveBot(context.Background(), callReq(map[string]any{"bot_id": "bot-1"}))
	require.NoError(t, err)
	out = resultJSON(t, res)
	assert.Equal(t, true, out["ok"])

	_, err = reg.ByBotID(context.Background(), "bot-1")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestHandleLaunchBotMissingURL(t *testing.T) {
	h, _ := newHandlers(t)

	res, err := h.HandleLaunchBot(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestToolDefs(t *testing.T) {
	tools := ToolDefs()
	require.Len(t, tools, 5)
	assert.Equal(t, "list_personas", tools[0].Name)
	assert.Equal(t, "get_persona", tools[1].Name)
	assert.Equal(t, "validate_persona", tools[2].Name)
	assert.Equal(t, "launch_bot", tools[3].Name)
	assert.Equal(t, "leave_bot", tools[4].Name)
}
