package web

import (
	"encoding/json"

	"github.com/cjeanneret/PanTilt/internal/cloud"
)

// WebSocket message types.
const (
	TypeNode  = "node"  // server -> client: device description and values
	TypeParam = "param" // server -> client: acknowledged value
	TypeWrite = "write" // client -> server: parameter write
	TypeError = "error" // server -> client: rejected message
)

// Error codes carried in ErrorPayload.
const (
	ErrInvalidMessage = "INVALID_MESSAGE"
	ErrUnknownParam   = "UNKNOWN_PARAM"
	ErrInvalidValue   = "INVALID_VALUE"
	ErrBusy           = "BUSY"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NodePayload describes the node and its current values.
type NodePayload struct {
	cloud.Description
	Values map[string]cloud.Value `json:"values"`
}

// ParamPayload carries one parameter value, in both directions.
type ParamPayload struct {
	Name  string      `json:"name"`
	Value cloud.Value `json:"value"`
}

// ErrorPayload reports why a client message was rejected.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage wraps payload in an envelope of the given type.
func NewMessage(msgType string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, Payload: data}, nil
}

// ParsePayload unmarshals the payload into v.
func (m *Message) ParsePayload(v any) error {
	return json.Unmarshal(m.Payload, v)
}
