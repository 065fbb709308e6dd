// Package bridge multiplexes many concurrent logical calls over one physical
// duplex stream to the external mediator process, correlating replies to
// callers by message id under a per-request timeout.
package bridge

import (
	"encoding/json"
	"time"
)

// Message kinds on the mediator wire.
const (
	TypeRequest  = "request"
	TypeResponse = "response"
	TypeEvent    = "event"
)

// Message is the wire shape exchanged with the mediator, one JSON object per
// line.
//
// Request:  {"id":"<uuid>","type":"request","method":"continue","data":{...},"timestamp":"..."}
// Response: {"id":"<uuid>","type":"response","data":{...}} or {"id":...,"type":"response","error":"..."}
// Event:    {"id":"<uuid>","type":"event","method":"stopped","data":{...},"timestamp":"..."}
type Message struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Method    string          `json:"method,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// IsError reports whether a response message carries a mediator-side failure.
func (m *Message) IsError() bool {
	return m.Error != ""
}

// newRequest builds an outbound request message with a fresh timestamp.
func newRequest(id, method string, data json.RawMessage) *Message {
	return &Message{
		ID:        id,
		Type:      TypeRequest,
		Method:    method,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
