package types

import (
	"encoding/json"
)

const (
	TypeWebsocketPing  = "ping"
	TypeWebsocketPong  = "pong"
	TypeWebsocketChat  = "chat"
	TypeWebsocketError = "error"
)

type WebsocketRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type WebSocketChatPayload struct {
	Message string `json:"message"`
	Persist bool   `json:"persist"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type WebSocketChatResponse struct {
	Message string `json:"message"`
}

type WebSocketErrorResponse struct {
	Error string `json:"error"`
}
