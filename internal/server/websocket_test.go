package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, mux *http.ServeMux, user string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/assist"
	header := http.Header{}
	header.Set("X-User-ID", user)
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntilTerminal collects frames for one request, stopping at the
// first complete or error frame.
func readUntilTerminal(t *testing.T, conn *websocket.Conn) []WSMessage {
	t.Helper()
	var frames []WSMessage
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg WSMessage
		require.NoError(t, conn.ReadJSON(&msg))
		frames = append(frames, msg)
		if msg.Type == MessageTypeComplete || msg.Type == MessageTypeError {
			return frames
		}
	}
}

func TestWebSocketStreamsChunksThenComplete(t *testing.T) {
	_, mux := newTestServer(t, testConfig())
	conn := dialWS(t, mux, "student-42")

	req := WSRequest{Feature: "summary", Text: "First point. Second point.", MaxBullets: 2}
	require.NoError(t, conn.WriteJSON(req))

	frames := readUntilTerminal(t, conn)
	require.Len(t, frames, 3)
	assert.Equal(t, MessageTypeChunk, frames[0].Type)
	assert.Equal(t, "First point.", frames[0].Content)
	assert.Equal(t, MessageTypeChunk, frames[1].Type)
	assert.Equal(t, "Second point.", frames[1].Content)
	assert.Equal(t, MessageTypeComplete, frames[2].Type)
	assert.False(t, frames[2].Cached)

	// The same request over the same connection is served from cache.
	require.NoError(t, conn.WriteJSON(req))
	frames = readUntilTerminal(t, conn)
	require.Len(t, frames, 3)
	assert.Equal(t, MessageTypeComplete, frames[2].Type)
	assert.True(t, frames[2].Cached)
}

func TestWebSocketRateLimitErrorFrame(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Requests = 1
	_, mux := newTestServer(t, cfg)
	conn := dialWS(t, mux, "student-42")

	require.NoError(t, conn.WriteJSON(WSRequest{Feature: "wellness"}))
	frames := readUntilTerminal(t, conn)
	require.Equal(t, MessageTypeComplete, frames[len(frames)-1].Type)

	// Different fingerprint so the cache cannot answer; the limiter
	// rejects and the connection stays usable.
	require.NoError(t, conn.WriteJSON(WSRequest{Feature: "wellness", Focus: []string{"sleep"}}))
	frames = readUntilTerminal(t, conn)
	require.Len(t, frames, 1)
	assert.Equal(t, MessageTypeError, frames[0].Type)
	assert.Equal(t, "too many requests", frames[0].Error)
}

func TestWebSocketRejectsMalformedRequests(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Requests = 1
	_, mux := newTestServer(t, cfg)
	conn := dialWS(t, mux, "student-42")

	require.NoError(t, conn.WriteJSON(WSRequest{Feature: "horoscope", Text: "whatever"}))
	frames := readUntilTerminal(t, conn)
	require.Len(t, frames, 1)
	assert.Equal(t, MessageTypeError, frames[0].Type)
	assert.Contains(t, frames[0].Error, "unknown feature")

	require.NoError(t, conn.WriteJSON(WSRequest{Feature: "summary", Text: "   "}))
	frames = readUntilTerminal(t, conn)
	require.Len(t, frames, 1)
	assert.Equal(t, MessageTypeError, frames[0].Type)
	assert.Equal(t, "text cannot be empty", frames[0].Error)

	// Rejected frames consumed no rate-limit slots: with a budget of
	// one, a valid request still goes through.
	require.NoError(t, conn.WriteJSON(WSRequest{Feature: "summary", Text: "One point."}))
	frames = readUntilTerminal(t, conn)
	assert.Equal(t, MessageTypeComplete, frames[len(frames)-1].Type)
}
