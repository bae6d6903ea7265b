package server

import "encoding/json"

// Client message types.
const (
	msgChange = "change"
	msgSubmit = "submit"
	msgPing   = "ping"
)

// Server message types.
const (
	msgSnapshot = "snapshot"
	msgPayload  = "payload"
	msgError    = "error"
	msgPong     = "pong"
)

// ClientMessage is sent by the browser over the session socket.
type ClientMessage struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ServerMessage answers a ClientMessage. RequestID echoes the client id.
type ServerMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// ErrorData is the payload of an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
