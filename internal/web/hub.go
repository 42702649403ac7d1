package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cjeanneret/PanTilt/internal/cloud"
	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/logic/control"
)

// ErrQueueFull is returned when a write could not be queued.
var ErrQueueFull = errors.New("command queue full")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 4096
	sendBuffer = 64
)

// SubmitFunc hands a command to the control loop without blocking.
type SubmitFunc func(control.Command) bool

// ParamHub is the remote side of the device parameter model: clients
// write parameters through it and the dispatcher publishes acknowledged
// values back through it.
type ParamHub struct {
	device      *cloud.Device
	submit      SubmitFunc
	broadcaster *StatusBroadcaster
	upgrader    websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

// NewParamHub creates a hub. broadcaster may be nil.
func NewParamHub(device *cloud.Device, submit SubmitFunc, broadcaster *StatusBroadcaster) *ParamHub {
	return &ParamHub{
		device:      device,
		submit:      submit,
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local network controller
			},
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// Device returns the parameter model served by the hub.
func (h *ParamHub) Device() *cloud.Device {
	return h.device
}

// Write validates a client write and queues it as a cloud command.
func (h *ParamHub) Write(name string, v cloud.Value) error {
	v, err := h.device.Validate(name, v)
	if err != nil {
		return err
	}
	if !h.submit(control.Command{Source: control.SourceCloud, Name: name, Value: v}) {
		return ErrQueueFull
	}
	return nil
}

// Publish implements control.Publisher: it stores the acknowledged value
// and pushes it to every WebSocket and SSE client.
func (h *ParamHub) Publish(name string, v cloud.Value) error {
	if err := h.device.Update(name, v); err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	p := ParamPayload{Name: name, Value: v}
	msg, err := NewMessage(TypeParam, p)
	if err != nil {
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	for c := range h.clients {
		c.enqueue(data)
	}
	h.mu.RUnlock()

	if h.broadcaster != nil {
		h.broadcaster.BroadcastParam(p)
	}
	return nil
}

// Clients returns the number of connected WebSocket clients.
func (h *ParamHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every WebSocket client.
func (h *ParamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}

// HandleWebSocket handles GET /ws.
func (h *ParamHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Warn("WebSocket upgrade error: %v", err)
		return
	}

	c := &wsClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	debug.Info("WebSocket client connected from %s", r.RemoteAddr)

	go c.writePump()
	go c.readPump()

	c.sendMessage(TypeNode, NodePayload{
		Description: h.device.Describe(),
		Values:      h.device.Values(),
	})
}

func (h *ParamHub) remove(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

// wsClient is one connected WebSocket peer.
type wsClient struct {
	hub  *ParamHub
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func (c *wsClient) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		debug.Verbose("WebSocket client send buffer full, dropping message")
	}
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *wsClient) sendMessage(msgType string, payload any) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		debug.Error(err)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		debug.Error(err)
		return
	}
	c.enqueue(data)
}

func (c *wsClient) sendError(code, message string) {
	c.sendMessage(TypeError, ErrorPayload{Code: code, Message: message})
}

func (c *wsClient) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				debug.Warn("WebSocket error: %v", err)
			}
			return
		}
		c.handleMessage(data)
	}
}

func (c *wsClient) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrInvalidMessage, "failed to parse message")
		return
	}

	switch msg.Type {
	case TypeWrite:
		var p ParamPayload
		if err := msg.ParsePayload(&p); err != nil {
			c.sendError(ErrInvalidValue, err.Error())
			return
		}
		if err := c.hub.Write(p.Name, p.Value); err != nil {
			c.sendError(errorCode(err), err.Error())
		}
	case TypeNode:
		c.sendMessage(TypeNode, NodePayload{
			Description: c.hub.device.Describe(),
			Values:      c.hub.device.Values(),
		})
	default:
		c.sendError(ErrInvalidMessage, "unknown message type "+msg.Type)
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// errorCode maps a write error to its wire code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, cloud.ErrUnknownParam):
		return ErrUnknownParam
	case errors.Is(err, ErrQueueFull):
		return ErrBusy
	default:
		return ErrInvalidValue
	}
}
