package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/assist"
)

// WebSocket message types
const (
	MessageTypeChunk    = "chunk"
	MessageTypeComplete = "complete"
	MessageTypeError    = "error"
)

// WSRequest is one streaming assist request from the portal's
// assistant widget.
type WSRequest struct {
	Feature    string   `json:"feature"` // summary | resume | wellness
	Text       string   `json:"text,omitempty"`
	Focus      []string `json:"focus,omitempty"`
	MaxBullets int      `json:"max_bullets,omitempty"`
}

// WSMessage is one frame sent back to the client.
type WSMessage struct {
	Type      string    `json:"type"`
	Content   string    `json:"content,omitempty"`
	Error     string    `json:"error,omitempty"`
	Cached    bool      `json:"cached,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The service sits behind the portal's web tier; origin
		// policy is enforced there.
		return true
	},
}

// handleWebSocket streams generation results chunk by chunk. The same
// rate limiting, caching, and fallback semantics as the HTTP path
// apply; streaming only changes the framing.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	id := identity(r)
	for {
		var req WSRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		payload, err := s.dispatchWS(r, id, req)
		if err != nil {
			msg := "internal error"
			var badReq *wsRequestError
			switch {
			case errors.Is(err, assist.ErrRateLimited):
				msg = "too many requests"
			case errors.As(err, &badReq):
				msg = badReq.msg
			default:
				var unavailable *assist.UnavailableError
				if errors.As(err, &unavailable) {
					msg = "generation temporarily unavailable"
				}
			}
			_ = conn.WriteJSON(WSMessage{Type: MessageTypeError, Error: msg, Timestamp: time.Now()})
			continue
		}

		for _, chunk := range chunksOf(payload) {
			if err := conn.WriteJSON(WSMessage{Type: MessageTypeChunk, Content: chunk, Timestamp: time.Now()}); err != nil {
				return
			}
		}
		if err := conn.WriteJSON(WSMessage{Type: MessageTypeComplete, Cached: payload.Meta.Cached, Timestamp: time.Now()}); err != nil {
			return
		}
	}
}

// wsRequestError marks a malformed streaming request; its message is
// safe to echo to the client.
type wsRequestError struct {
	msg string
}

func (e *wsRequestError) Error() string { return e.msg }

// dispatchWS validates and routes one frame. Rejections happen before
// the service is invoked, so a malformed frame consumes no rate-limit
// slot and caches nothing.
func (s *Server) dispatchWS(r *http.Request, id string, req WSRequest) (*assist.Payload, error) {
	switch req.Feature {
	case "summary":
		if strings.TrimSpace(req.Text) == "" {
			return nil, &wsRequestError{msg: "text cannot be empty"}
		}
		return s.service.Summarize(r.Context(), id, req.Text, req.MaxBullets)
	case "resume":
		if strings.TrimSpace(req.Text) == "" {
			return nil, &wsRequestError{msg: "resume cannot be empty"}
		}
		return s.service.ResumeFeedback(r.Context(), id, req.Text)
	case "wellness":
		return s.service.WellnessTips(r.Context(), id, req.Focus)
	default:
		return nil, &wsRequestError{msg: fmt.Sprintf("unknown feature %q", req.Feature)}
	}
}

// chunksOf flattens a generation payload into streamable text chunks,
// one per bullet, splitting unstructured text on sentence boundaries.
func chunksOf(p *assist.Payload) []string {
	data, ok := p.Data.(assist.SummaryData)
	if !ok {
		return nil
	}
	if len(data.Bullets) > 0 {
		return data.Bullets
	}
	if strings.TrimSpace(data.Text) != "" {
		return assist.SplitSentences(data.Text, 50)
	}
	return nil
}
