package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tieubaoca/doc2cal/types"
)

const (
	wsReadLimit   = 512 * 1024
	wsReadTimeout = 60 * time.Second
)

// WebSocketService lets a browser keep talking to the model on its session
// conversation after a document has been processed.
type WebSocketService struct {
	gateway     *LLMGateway
	upgrader    websocket.Upgrader
	readTimeout time.Duration
	logger      *zap.Logger
}

func NewWebSocketService(gateway *LLMGateway, logger *zap.Logger) *WebSocketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketService{
		gateway: gateway,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		readTimeout: wsReadTimeout,
		logger:      logger.With(zap.String("module", "websocket")),
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request, conv *Conversation) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Upgrade error", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		// The idle timeout counts from the last reply.
		if err := conn.WriteJSON(s.dispatch(ctx, conv, p)); err != nil {
			s.logger.Warn("Write error", zap.Error(err))
			return
		}
		conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}
}

func (s *WebSocketService) dispatch(ctx context.Context, conv *Conversation, p []byte) types.WebSocketResponse {
	var req types.WebsocketRequest
	if err := json.Unmarshal(p, &req); err != nil {
		return wsError("invalid message")
	}

	switch req.Type {
	case types.TypeWebsocketPing:
		return types.WebSocketResponse{Type: types.TypeWebsocketPong}
	case types.TypeWebsocketChat:
		var payload types.WebSocketChatPayload
		if err := json.Unmarshal(req.Payload, &payload); err != nil || payload.Message == "" {
			return wsError("invalid chat payload")
		}
		reply, ok := s.gateway.Ask(ctx, conv, payload.Message, payload.Persist)
		if !ok {
			return wsError("no response from model")
		}
		return types.WebSocketResponse{
			Type:    types.TypeWebsocketChat,
			Payload: types.WebSocketChatResponse{Message: reply},
		}
	default:
		return wsError("unknown message type")
	}
}

func wsError(msg string) types.WebSocketResponse {
	return types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebSocketErrorResponse{Error: msg},
	}
}
