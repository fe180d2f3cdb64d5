package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"

	"github.com/athena-agent/athena/internal/agents"
	"github.com/athena-agent/athena/internal/events"
	"github.com/athena-agent/athena/internal/skills"
	"github.com/athena-agent/athena/internal/slash"
)

// Services are the registries reachable through request frames.
type Services struct {
	Skills   *skills.Registry
	Agents   *agents.Orchestrator
	Commands *slash.Dispatcher
}

// Client represents a connected WebSocket client.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub manages WebSocket clients and bridges them to the event bus.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]struct{}
	bus         *events.Bus
	svc         Services
	origins     atomic.Pointer[[]string]
	unsubscribe func()
}

// NewHub creates a new WebSocket hub connected to an event bus. Origins
// lists the host patterns allowed to connect; empty allows any origin.
func NewHub(bus *events.Bus, svc Services, origins ...string) *Hub {
	h := &Hub{
		clients: make(map[*Client]struct{}),
		bus:     bus,
		svc:     svc,
	}
	h.SetOrigins(origins...)

	// Subscribe to all events and bridge to WS clients
	h.unsubscribe = bus.Subscribe(func(e events.Event) {
		frame, err := NewEventFrame(string(e.Type), e)
		if err != nil {
			slog.Error("marshal event frame", "error", err)
			return
		}
		data, err := MarshalFrame(frame)
		if err != nil {
			slog.Error("marshal frame", "error", err)
			return
		}
		h.broadcast(data)
	})

	return h
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast sends data to all connected clients.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

// register adds a client to the hub.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	slog.Info("ws client connected", "clients", len(h.clients))
}

// unregister removes a client from the hub.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		slog.Info("ws client disconnected", "clients", len(h.clients))
	}
}

// SetOrigins replaces the allowed origin host patterns. Connections already
// accepted are kept.
func (h *Hub) SetOrigins(origins ...string) {
	o := append([]string(nil), origins...)
	h.origins.Store(&o)
}

// Origins returns the allowed origin host patterns.
func (h *Hub) Origins() []string {
	return append([]string(nil), *h.origins.Load()...)
}

// ServeWS handles a WebSocket upgrade and manages the client lifecycle.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	origins := *h.origins.Load()
	opts := &websocket.AcceptOptions{OriginPatterns: origins}
	if len(origins) == 0 {
		opts.InsecureSkipVerify = true
	}
	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		slog.Error("ws accept", "error", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	h.register(client)

	ctx := r.Context()
	go client.writePump(ctx)
	client.readPump(ctx)
}

// readPump reads frames from the WS connection and dispatches them.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("ws read closed", "status", websocket.CloseStatus(err))
			} else {
				slog.Debug("ws read error", "error", err)
			}
			return
		}

		frame, err := UnmarshalFrame(data)
		if err != nil {
			slog.Error("ws unmarshal frame", "error", err)
			continue
		}

		c.handleFrame(ctx, frame)
	}
}

// handleFrame processes an incoming WS frame.
func (c *Client) handleFrame(ctx context.Context, frame Frame) {
	switch frame.Type {
	case FrameTypeRequest:
		c.handleRequest(ctx, frame)
	default:
		slog.Debug("ws unknown frame type", "type", frame.Type)
	}
}

// handleRequest processes a request frame (method dispatch).
func (c *Client) handleRequest(ctx context.Context, frame Frame) {
	svc := c.hub.svc

	switch Method(frame.Method) {
	case MethodExecuteCommand:
		var params ExecuteCommandParams
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			c.sendError(frame.ID, "invalid params")
			return
		}

		var (
			resp slash.Response
			err  error
		)
		if params.Line != "" {
			resp, err = svc.Commands.ExecuteLine(ctx, params.Line)
		} else {
			resp, err = svc.Commands.Execute(ctx, params.Command, params.Args)
		}
		if err != nil {
			c.sendError(frame.ID, err.Error())
			return
		}
		c.sendOK(frame.ID, resp)

	case MethodCreateTask:
		var params CreateTaskParams
		if err := json.Unmarshal(frame.Params, &params); err != nil || params.AgentID == "" {
			c.sendError(frame.ID, "invalid params")
			return
		}
		task := svc.Agents.CreateTask(ctx, params.AgentID, params.Input)
		if task == nil {
			c.sendError(frame.ID, "Agent not found")
			return
		}
		c.sendOK(frame.ID, task)

	case MethodExecuteTask:
		var params ExecuteTaskParams
		if err := json.Unmarshal(frame.Params, &params); err != nil || params.TaskID == "" {
			c.sendError(frame.ID, "invalid params")
			return
		}
		task := svc.Agents.ExecuteTask(ctx, params.TaskID)
		if task == nil {
			c.sendError(frame.ID, "Task not found")
			return
		}
		c.sendOK(frame.ID, task)

	case MethodGetStats:
		c.sendOK(frame.ID, map[string]any{
			"skills": map[string]int{
				"total":  svc.Skills.Count(),
				"loaded": svc.Skills.Len(),
			},
			"agents":     svc.Agents.Stats(),
			"ws_clients": c.hub.ClientCount(),
		})

	case MethodSearchSkills:
		var params skills.SearchParams
		if len(frame.Params) > 0 {
			if err := json.Unmarshal(frame.Params, &params); err != nil {
				c.sendError(frame.ID, "invalid params")
				return
			}
		}
		c.sendOK(frame.ID, svc.Skills.Search(params))

	default:
		c.sendError(frame.ID, "unknown method: "+frame.Method)
	}
}

// writePump writes queued messages to the WS connection.
func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				if !errors.Is(err, context.Canceled) {
					slog.Debug("ws write error", "error", err)
				}
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) sendOK(id string, payload any) {
	f, err := NewResponseFrame(id, true, payload, "")
	if err != nil {
		slog.Error("marshal response frame", "error", err)
		return
	}
	c.queue(f)
}

func (c *Client) sendError(id string, errMsg string) {
	f, err := NewResponseFrame(id, false, nil, errMsg)
	if err != nil {
		return
	}
	c.queue(f)
}

func (c *Client) queue(f Frame) {
	data, err := MarshalFrame(f)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Close shuts down the hub and all client connections.
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	// readPump unregisters each client once its connection is closed
	for _, c := range clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutdown")
	}
}
