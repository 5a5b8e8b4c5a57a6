package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/schemeview/pkg/errors"
	"github.com/matzehuels/schemeview/pkg/render"
	"github.com/matzehuels/schemeview/pkg/render/sink"
	"github.com/matzehuels/schemeview/pkg/view"
)

const (
	wsReadWaitTimeout  = 30 * time.Second
	wsWriteWaitTimeout = 10 * time.Second
	wsPingPeriod       = 10 * time.Second
	wsReadLimit        = 16 * 1024
)

// Client message types.
const (
	clientPointer = "pointer"
	clientScale   = "scale"
	clientPing    = "ping"
	clientPong    = "pong"
)

// ClientMessage is a client-to-server websocket message.
type ClientMessage struct {
	Type   string  `json:"type"`
	ID     int     `json:"id,omitempty"`
	Event  string  `json:"event,omitempty"`
	Mode   string  `json:"mode,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:   4 * 1024,
	WriteBufferSize:  32 * 1024,
	HandshakeTimeout: 5 * time.Second,
	CheckOrigin:      func(r *http.Request) bool { return true },
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	c := s.hub.register(id)
	defer s.hub.unregister(id)

	closeCh := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.readLoop(r.Context(), conn, c, closeCh)
	}()
	go func() {
		defer wg.Done()
		s.writeLoop(r.Context(), conn, c, closeCh)
	}()
	wg.Wait()
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, c *client, closeCh chan struct{}) {
	defer close(closeCh)
	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadWaitTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadWaitTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", "client", c.id, "err", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadWaitTimeout))

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reply(c, Message{Type: MsgError, Error: "malformed message"})
			continue
		}
		if err := s.handleClientMessage(ctx, msg); err != nil {
			if errors.Is(err, errors.ErrCodeInvalidInput) {
				s.reply(c, Message{Type: MsgError, Error: errors.UserMessage(err)})
				continue
			}
			s.logger.Debug("client message not handled", "client", c.id, "type", msg.Type, "err", err)
			return
		}
		if msg.Type == clientPing {
			s.reply(c, Message{Type: MsgPong})
		}
	}
}

// handleClientMessage hands a client message to the session loop.
func (s *Server) handleClientMessage(ctx context.Context, msg ClientMessage) error {
	switch msg.Type {
	case clientPointer:
		kind, ok := sink.ParseEventKind(msg.Event)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "unknown pointer event %q", msg.Event)
		}
		return s.session.Post(ctx, func(v *view.Session) {
			if !v.Pointer(msg.ID, kind) {
				s.logger.Debug("pointer event for component without node", "id", msg.ID, "event", kind)
			}
		})
	case clientScale:
		mode, ok := render.ParseScaleMode(msg.Mode)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "unknown scale mode %q", msg.Mode)
		}
		return s.session.Post(ctx, func(v *view.Session) {
			scale := v.SetScale(mode, msg.Width, msg.Height)
			s.logger.Debug("view rescaled", "mode", mode, "scale", scale)
		})
	case clientPing, clientPong:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown message type %q", msg.Type)
	}
}

func (s *Server) reply(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.out <- data:
	default:
	}
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, c *client, closeCh chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.out:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWaitTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("websocket write failed", "client", c.id, "err", err)
				conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWaitTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(wsWriteWaitTimeout))
			conn.Close()
			return
		case <-closeCh:
			return
		}
	}
}
