package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/doc2cal/middleware"
	"github.com/tieubaoca/doc2cal/service"
	"github.com/tieubaoca/doc2cal/types"
)

// ChatHandler exposes the session conversation.
type ChatHandler struct {
	sessions        *service.SessionStore
	gateway         *service.LLMGateway
	websocket       *service.WebSocketService
	newConversation func() *service.Conversation
}

func NewChatHandler(
	sessions *service.SessionStore,
	gateway *service.LLMGateway,
	websocket *service.WebSocketService,
	newConversation func() *service.Conversation,
) *ChatHandler {
	return &ChatHandler{
		sessions:        sessions,
		gateway:         gateway,
		websocket:       websocket,
		newConversation: newConversation,
	}
}

func (h *ChatHandler) conversation(c *gin.Context) *service.Conversation {
	return h.sessions.Conversation(middleware.SessionID(c), h.newConversation)
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	reply, ok := h.gateway.Ask(c.Request.Context(), h.conversation(c), req.Message, req.Persist)
	if !ok {
		c.JSON(http.StatusBadGateway, types.DataResponse{
			Status:  false,
			Message: "No response from model",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.ChatResponse{
			Message: &types.Message{Role: types.RoleAssistant, Content: reply},
		},
	})
}

func (h *ChatHandler) HandleTranscript(c *gin.Context) {
	conv := h.conversation(c)
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.TranscriptResponse{
			Messages:   conv.Messages(),
			Transcript: conv.Transcript(),
		},
	})
}

func (h *ChatHandler) HandleReset(c *gin.Context) {
	h.conversation(c).Reset()
	c.JSON(http.StatusOK, types.DataResponse{Status: true})
}

func (h *ChatHandler) HandleWebSocket(c *gin.Context) {
	h.websocket.HandleChat(c.Writer, c.Request, h.conversation(c))
}
