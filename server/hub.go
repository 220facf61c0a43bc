package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/slime/sim"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub fans frames out to connected observers. Only the most recent
// published frame is delivered; slow observers skip frames.
type Hub struct {
	commands    *sim.CommandQueue
	info        ConfigMessage
	defaultFood int

	clientsMu sync.Mutex
	clients   map[*client]struct{}

	frameMu sync.Mutex
	latest  *sim.Frame
	notify  chan struct{}
}

// NewHub creates a hub that enqueues observer commands on q.
func NewHub(q *sim.CommandQueue, w, h int, plateRadius float32, defaultFood int) *Hub {
	return &Hub{
		commands:    q,
		info:        ConfigMessage{Type: "config", W: w, H: h, PlateRadius: plateRadius},
		defaultFood: defaultFood,
		clients:     make(map[*client]struct{}),
		notify:      make(chan struct{}, 1),
	}
}

// Publish replaces the pending frame. It never blocks.
func (h *Hub) Publish(f sim.Frame) {
	h.frameMu.Lock()
	h.latest = &f
	h.frameMu.Unlock()

	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// Run delivers published frames until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-h.notify:
		}

		h.frameMu.Lock()
		f := h.latest
		h.latest = nil
		h.frameMu.Unlock()
		if f == nil {
			continue
		}

		msg := FrameMessage{Type: "frame", Frame: *f}
		for _, c := range h.snapshotClients() {
			if err := c.send(msg); err != nil {
				slog.Debug("dropping observer", "error", err)
				h.remove(c)
			}
		}
	}
}

// ClientCount returns the number of connected observers.
func (h *Hub) ClientCount() int {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	return len(h.clients)
}

func (h *Hub) snapshotClients() []*client {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	return list
}

func (h *Hub) remove(c *client) {
	h.clientsMu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.clientsMu.Unlock()
	if ok {
		c.conn.Close()
	}
}

func (h *Hub) closeAll() {
	for _, c := range h.snapshotClients() {
		h.remove(c)
	}
}

// ServeHTTP upgrades the request and reads client messages until the
// connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn}
	h.clientsMu.Lock()
	h.clients[c] = struct{}{}
	h.clientsMu.Unlock()
	slog.Info("observer connected", "remote", r.RemoteAddr, "observers", h.ClientCount())

	if err := c.send(h.info); err != nil {
		h.remove(c)
		return
	}

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		reply := ReplyMessage{Type: "ack", Request: msg.Type}
		if err := Dispatch(msg, h.commands, h.defaultFood); err != nil {
			reply = ReplyMessage{Type: "error", Request: msg.Type, Error: err.Error()}
		}
		if err := c.send(reply); err != nil {
			break
		}
	}

	h.remove(c)
	slog.Info("observer disconnected", "remote", r.RemoteAddr)
}

// ListenAndServe serves the hub at /ws on addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("observer server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
