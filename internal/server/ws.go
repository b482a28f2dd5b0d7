package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/goliatone/go-framepanel/pkg/frame"
	"github.com/goliatone/go-framepanel/pkg/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Developer harness, served same-origin or over localhost.
		return true
	},
}

// wsMessage is one frame on the stream: a host event or a log entry.
type wsMessage struct {
	Type  string         `json:"type"`
	Event *frame.Event   `json:"event,omitempty"`
	Entry *logging.Entry `json:"entry,omitempty"`
}

const (
	wsBuffer       = 64
	wsWriteTimeout = 5 * time.Second
)

// handleWebsocket streams host events and log entries to the client until
// the connection drops. Messages the client sends are ignored beyond
// keeping the read side drained.
func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	messages := make(chan wsMessage, wsBuffer)

	if s.host.Supports(frame.CapEvents) {
		cancel, err := s.host.Subscribe(nil, func(event frame.Event) {
			select {
			case messages <- wsMessage{Type: "event", Event: &event}:
			default:
				// Slow consumer, drop.
			}
		})
		if err != nil {
			s.log.Warn("websocket event subscription failed", zap.Error(err))
		} else {
			defer cancel()
		}
	}

	if s.tail != nil {
		cancel := s.tail.Subscribe(func(entry logging.Entry) {
			select {
			case messages <- wsMessage{Type: "log", Entry: &entry}:
			default:
			}
		})
		defer cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case msg := <-messages:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
