package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schemeview/pkg/observability"
	"github.com/matzehuels/schemeview/pkg/render"
	"github.com/matzehuels/schemeview/pkg/render/sink/dom"
	"github.com/matzehuels/schemeview/pkg/view"
)

// Message types pushed to clients.
const (
	MsgPatch   = "patch"
	MsgTitle   = "title"
	MsgChart   = "chart"
	MsgCommand = "command"
	MsgReload  = "reload"
	MsgPong    = "pong"
	MsgError   = "error"
)

// Message is a server-to-client websocket message.
type Message struct {
	Type       string      `json:"type"`
	Patches    []dom.Patch `json:"patches,omitempty"`
	Title      string      `json:"title,omitempty"`
	CnlNum     int         `json:"cnlNum,omitempty"`
	CtrlCnlNum int         `json:"ctrlCnlNum,omitempty"`
	ViewID     int         `json:"viewId,omitempty"`
	Date       *time.Time  `json:"date,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// clientBuffer is the number of messages queued per client before new ones
// are dropped.
const clientBuffer = 64

type client struct {
	id  string
	out chan []byte
}

// Hub fans messages out to connected websocket clients. It is the view hub
// and the dialogs collaborator of the session it serves: title changes and
// chart or command requests are broadcast to every client.
type Hub struct {
	viewID int
	logger *log.Logger

	mu       sync.Mutex
	clients  map[string]*client
	viewDate time.Time
}

// NewHub creates a hub for the view with the given id.
func NewHub(viewID int, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		viewID:  viewID,
		logger:  logger,
		clients: make(map[string]*client),
	}
}

// Dialogs returns the hub itself.
func (h *Hub) Dialogs() render.Dialogs { return h }

// CurrentViewID returns the configured view id.
func (h *Hub) CurrentViewID() int { return h.viewID }

// CurrentViewDate returns the date set with SetViewDate.
func (h *Hub) CurrentViewDate() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewDate
}

// SetViewDate pins the reference date of chart requests. The zero time
// means live data.
func (h *Hub) SetViewDate(t time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.viewDate = t
}

// Notify broadcasts title changes. Other events are ignored.
func (h *Hub) Notify(event render.EventType, payload string) {
	if event != render.EventViewTitleChanged {
		h.logger.Debug("ignoring hub event", "event", event)
		return
	}
	h.Broadcast(Message{Type: MsgTitle, Title: payload})
}

// ShowChart asks clients to open the chart of a channel.
func (h *Hub) ShowChart(cnlNum, viewID int, date time.Time) {
	h.Broadcast(Message{Type: MsgChart, CnlNum: cnlNum, ViewID: viewID, Date: &date})
}

// ShowCommand asks clients to open the command dialog of a control channel.
func (h *Hub) ShowCommand(ctrlCnlNum, viewID int) {
	h.Broadcast(Message{Type: MsgCommand, CtrlCnlNum: ctrlCnlNum, ViewID: viewID})
}

// Broadcast queues msg for every client. It never blocks: a client whose
// queue is full misses the message.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("cannot marshal message", "type", msg.Type, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.out <- data:
		default:
			h.logger.Warn("client is not keeping up, message dropped", "client", c.id, "type", msg.Type)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(id string) *client {
	c := &client{id: id, out: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	observability.HTTP().OnClient(context.Background(), id, true)
	h.logger.Debug("client connected", "client", id)
	return c
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
	observability.HTTP().OnClient(context.Background(), id, false)
	h.logger.Debug("client disconnected", "client", id)
}

// Forward broadcasts session updates until ctx is done or the channel is
// closed. Title changes reach clients through Notify, so only patches and
// resets are forwarded here.
func (h *Hub) Forward(ctx context.Context, updates <-chan view.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if u.Reset {
				h.Broadcast(Message{Type: MsgReload})
				continue
			}
			if len(u.Patches) > 0 {
				h.Broadcast(Message{Type: MsgPatch, Patches: u.Patches})
			}
		}
	}
}

var (
	_ render.ViewHub = (*Hub)(nil)
	_ render.Dialogs = (*Hub)(nil)
)
