package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"remindee/internal/application/service"
	"remindee/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// botAPI is a minimal stand-in for the Bot API sendMessage method.
type botAPI struct {
	mu     sync.Mutex
	bodies []string
	fail   bool
}

func (a *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	a.mu.Lock()
	a.bodies = append(a.bodies, string(body))
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if a.fail || !strings.HasSuffix(r.URL.Path, "/sendMessage") {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error_code": 400, "description": "Bad Request: chat not found"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok": true,
		"result": map[string]any{
			"message_id": 77,
			"date":       1715353200,
			"chat":       map[string]any{"id": 5, "type": "private"},
			"text":       "ok",
		},
	})
}

func newTestClient(t *testing.T, api *botAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	c, err := NewClient(Settings{Token: "123:abc", URL: srv.URL, Offline: true}, logger.Nop())
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(Settings{Token: " "}, logger.Nop())
	assert.Error(t, err)
}

func TestNotifyReturnsSentMessageID(t *testing.T) {
	api := &botAPI{}
	c := newTestClient(t, api)
	reply := 9

	id, err := c.Notify(context.Background(), service.Notification{ChatID: 5, Description: "stretch", Recurring: true, ReplyTo: &reply})
	require.NoError(t, err)
	assert.Equal(t, 77, id)

	require.Len(t, api.bodies, 1)
	body := api.bodies[0]
	assert.Contains(t, body, "🔁 stretch")
	assert.Contains(t, body, `"5"`)
	assert.True(t, strings.Contains(body, "reply_to_message_id") || strings.Contains(body, "reply_parameters"), body)
}

func TestNotifySurfacesAPIErrors(t *testing.T) {
	c := newTestClient(t, &botAPI{fail: true})

	_, err := c.Notify(context.Background(), service.Notification{ChatID: 5, Description: "x"})
	assert.Error(t, err)
}

func TestNotifyHonoursCancelledContext(t *testing.T) {
	api := &botAPI{}
	c := newTestClient(t, api)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Notify(ctx, service.Notification{ChatID: 5, Description: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.bodies)
}

func TestText(t *testing.T) {
	assert.Equal(t, "pay rent", Text(service.Notification{Description: "pay rent"}))
	assert.Equal(t, "🔁 pay rent", Text(service.Notification{Description: "pay rent", Recurring: true}))
}
