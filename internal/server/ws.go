package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/code-landscape/internal/search"
	"github.com/ziadkadry99/code-landscape/internal/session"
	"github.com/ziadkadry99/code-landscape/internal/viewer"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// inbound is a pointer event or command sent by a client.
type inbound struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"delta_y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	ID     string  `json:"id"`
	Query  string  `json:"query"`
	Value  string  `json:"value"`
	On     *bool   `json:"on"`
}

// outbound is a JSON message sent to a client. Frames themselves travel as
// binary PNG messages.
type outbound struct {
	Type     string          `json:"type"`
	ClientID string          `json:"client_id,omitempty"`
	State    *viewer.State   `json:"state,omitempty"`
	Detail   json.RawMessage `json:"detail,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Hub tracks connected websocket clients.
type Hub struct {
	sess     *session.Session
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	id     string
	conn   *websocket.Conn
	send   chan outbound
	cancel context.CancelFunc
}

// NewHub creates a hub posting client events to sess.
func NewHub(sess *session.Session, debounce time.Duration, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sess:     sess,
		debounce: debounce,
		logger:   logger,
		clients:  make(map[string]*client),
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		c.cancel()
	}
}

// ServeHTTP upgrades the request and serves one client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		id:     uuid.New().String(),
		conn:   conn,
		send:   make(chan outbound, 16),
		cancel: cancel,
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.logger.Info("client connected", "client", c.id, "remote", r.RemoteAddr)

	frames, unsubscribe := h.sess.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.writeLoop(ctx, c, frames)
	}()

	c.send <- outbound{Type: "hello", ClientID: c.id}
	h.readLoop(ctx, c)

	cancel()
	unsubscribe()
	wg.Wait()
	conn.Close()

	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	h.logger.Info("client disconnected", "client", c.id)
}

// writeLoop is the only writer of the connection.
func (h *Hub) writeLoop(ctx context.Context, c *client, frames <-chan *session.Frame) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			c.conn.Close()
			return

		case f, ok := <-frames:
			if !ok {
				frames = nil
				c.cancel()
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if len(f.PNG) > 0 {
				if err := c.conn.WriteMessage(websocket.BinaryMessage, f.PNG); err != nil {
					c.cancel()
					continue
				}
			}
			st := f.State
			if err := c.conn.WriteJSON(outbound{Type: "state", State: &st}); err != nil {
				c.cancel()
			}

		case m := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(m); err != nil {
				c.cancel()
			}

		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
			}
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	debouncer := search.NewDebouncer(h.debounce, func(q string) {
		h.sess.Post("search", func(v *viewer.Viewer) error {
			v.Search(q)
			return nil
		})
	})
	defer debouncer.Stop()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read", "client", c.id, "error", err)
			}
			return
		}

		var in inbound
		if err := json.Unmarshal(msg, &in); err != nil {
			h.reply(c, outbound{Type: "error", Error: "invalid message format"})
			continue
		}

		if in.Type == "search" {
			debouncer.Trigger(in.Query)
			continue
		}

		var detail *json.RawMessage
		err = h.sess.Do(ctx, "ws", func(v *viewer.Viewer) error {
			return apply(v, in, &detail)
		})
		if err != nil {
			h.reply(c, outbound{Type: "error", Error: err.Error()})
			continue
		}
		if detail != nil {
			h.reply(c, outbound{Type: "detail", Detail: *detail})
		}
	}
}

func (h *Hub) reply(c *client, m outbound) {
	select {
	case c.send <- m:
	default:
		h.logger.Warn("client send buffer full, dropping message", "client", c.id, "type", m.Type)
	}
}

// apply runs one client message against the viewer. Selection changes
// produce a detail payload.
func apply(v *viewer.Viewer, in inbound, detail **json.RawMessage) error {
	before := v.Selected()

	switch in.Type {
	case "pointerdown":
		v.PointerDown(in.X, in.Y)
	case "pointermove":
		v.PointerMove(in.X, in.Y)
	case "pointerup":
		v.PointerUp(in.X, in.Y)
	case "click":
		v.Click(in.X, in.Y)
	case "pointerleave":
		v.PointerLeave()
	case "wheel":
		v.Wheel(in.X, in.Y, in.DeltaY)
	case "resize":
		v.Resize(in.Width, in.Height)
	case "select":
		if err := v.Select(in.ID); err != nil {
			return err
		}
		v.Focus(in.ID)
	case "back":
		v.Back()
	case "clear_selection":
		v.ClearSelection()
	case "toggle_node_type":
		if _, err := v.ToggleNodeType(in.Value); err != nil {
			return err
		}
	case "toggle_edge_type":
		if _, err := v.ToggleEdgeType(in.Value); err != nil {
			return err
		}
	case "freeze":
		return v.Freeze()
	case "unfreeze":
		return v.Unfreeze()
	case "fit":
		v.FitView()
	case "focus":
		v.Focus(in.ID)
	case "arrows":
		v.SetArrows(boolOr(in.On, !v.Arrows()))
	case "labels":
		v.SetLabels(boolOr(in.On, !v.Labels()))
	default:
		return fmt.Errorf("unknown message type: %s", in.Type)
	}

	if after := v.Selected(); after != before {
		d, err := v.Detail(context.Background())
		if err != nil {
			return err
		}
		raw, err := json.Marshal(d)
		if err != nil {
			return err
		}
		msg := json.RawMessage(raw)
		*detail = &msg
	}
	return nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
