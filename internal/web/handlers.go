package web

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/cjeanneret/PanTilt/internal/cloud"
	"github.com/cjeanneret/PanTilt/internal/hw/namedio"
	"github.com/cjeanneret/PanTilt/internal/logic/control"
	"github.com/cjeanneret/PanTilt/internal/logic/motion"
)

const maxBodyBytes = 4096

// Status is the payload of GET /status.
type Status struct {
	Mode        control.Mode    `json:"mode"`
	Motion      motion.Snapshot `json:"motion"`
	PeerEnabled bool            `json:"peer_enabled"`
	QueueDepth  int             `json:"queue_depth"`
	Clients     int             `json:"clients"`
}

// StatusFunc returns a snapshot of the controller state.
type StatusFunc func() Status

// NamedOutputs drives outputs by name.
type NamedOutputs interface {
	Set(name string, on bool) error
	Names() []string
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Hub         *ParamHub
	Broadcaster *StatusBroadcaster
	Status      StatusFunc
	Outputs     NamedOutputs
	Metrics     http.Handler
	staticFS    fs.FS
}

// NewHandlers creates handlers with the given dependencies.
// If outputs is nil, POST /gpio/{name} returns 501 for every name.
func NewHandlers(hub *ParamHub, broadcaster *StatusBroadcaster, status StatusFunc, outputs NamedOutputs, metrics http.Handler, staticFS fs.FS) *Handlers {
	return &Handlers{
		Hub:         hub,
		Broadcaster: broadcaster,
		Status:      status,
		Outputs:     outputs,
		Metrics:     metrics,
		staticFS:    staticFS,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, ErrorPayload{Code: errCode, Message: msg})
}

// ServeIndex serves the control page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

// HandleNode handles GET /node: the device description.
func (h *Handlers) HandleNode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Hub.Device().Describe())
}

// HandleParams handles GET /params: current parameter values.
func (h *Handlers) HandleParams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Hub.Device().Values())
}

// writeRequest is the body of POST /params/{name}.
type writeRequest struct {
	Value cloud.Value `json:"value"`
}

// HandleWriteParam handles POST /params/{name}. The write is queued for the
// control loop; the acknowledged value is published asynchronously.
func (h *Handlers) HandleWriteParam(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req writeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidMessage, "invalid JSON")
		return
	}

	if err := h.Hub.Write(name, req.Value); err != nil {
		switch {
		case errors.Is(err, cloud.ErrUnknownParam):
			writeError(w, http.StatusNotFound, ErrUnknownParam, err.Error())
		case errors.Is(err, ErrQueueFull):
			writeError(w, http.StatusServiceUnavailable, ErrBusy, err.Error())
		default:
			writeError(w, http.StatusBadRequest, ErrInvalidValue, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// HandleStatus handles GET /status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var st Status
	if h.Status != nil {
		st = h.Status()
	}
	st.Clients = h.Hub.Clients()
	writeJSON(w, http.StatusOK, st)
}

// gpioRequest is the body of POST /gpio/{name}.
type gpioRequest struct {
	On *bool `json:"on"`
}

// HandleGPIO handles POST /gpio/{name}.
func (h *Handlers) HandleGPIO(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req gpioRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil || req.On == nil {
		writeError(w, http.StatusBadRequest, ErrInvalidMessage, `body must be {"on": true|false}`)
		return
	}
	if h.Outputs == nil {
		writeError(w, http.StatusNotImplemented, ErrUnknownParam, "no named outputs configured")
		return
	}
	if err := h.Outputs.Set(name, *req.On); err != nil {
		if errors.Is(err, namedio.ErrUnsupported) {
			writeError(w, http.StatusNotImplemented, ErrUnknownParam, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, ErrInvalidValue, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "on": *req.On})
}

// HandleGPIONames handles GET /gpio.
func (h *Handlers) HandleGPIONames(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	if h.Outputs != nil {
		names = h.Outputs.Names()
	}
	writeJSON(w, http.StatusOK, names)
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			_, _ = w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
