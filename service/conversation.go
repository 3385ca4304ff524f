package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tieubaoca/doc2cal/database"
	"github.com/tieubaoca/doc2cal/types"
)

const SystemPrompt = "You are a helpful assistant."

// Conversation is an ordered chat history with one model. It is created per
// browser session or per CLI run and must not be shared beyond that.
type Conversation struct {
	mu       sync.Mutex
	ai       AIService
	stores   database.ExchangeStores
	messages []types.Message
	logger   *zap.Logger
}

func NewConversation(ai AIService, stores database.ExchangeStores, logger *zap.Logger) *Conversation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conversation{
		ai:     ai,
		stores: stores,
		logger: logger.With(zap.String("module", "conversation")),
	}
}

// AppendAndQuery adds msg as a user turn, asks the model with the full
// history and records the reply. When persist is set the exchange is
// upserted into the active store, otherwise every exchange store is reset.
// On a transport error the user turn stays in the history.
func (c *Conversation) AppendAndQuery(ctx context.Context, msg string, persist bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.messages) == 0 {
		c.messages = append(c.messages, types.Message{Role: types.RoleSystem, Content: SystemPrompt})
	}
	c.messages = append(c.messages, types.Message{Role: types.RoleUser, Content: msg})

	history := make([]types.Message, len(c.messages))
	copy(history, c.messages)
	response, err := c.ai.Chat(ctx, history)
	if err != nil {
		return "", err
	}
	c.messages = append(c.messages, types.Message{Role: types.RoleAssistant, Content: response})

	if persist {
		if active := c.stores.Active(); active != nil {
			if err := active.Upsert(ctx, msg, response); err != nil {
				c.logger.Warn("Failed to save exchange", zap.String("store", active.Name()), zap.Error(err))
			}
		}
	} else if err := c.stores.ClearAll(ctx); err != nil {
		c.logger.Warn("Failed to clear exchange stores", zap.Error(err))
	}
	return response, nil
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Transcript renders the user and assistant turns followed by the final output.
func (c *Conversation) Transcript() string {
	messages := c.Messages()
	var sb strings.Builder
	for _, m := range messages {
		switch m.Role {
		case types.RoleUser:
			fmt.Fprintf(&sb, "USER: %s\n", m.Content)
		case types.RoleAssistant:
			fmt.Fprintf(&sb, "BOT: %s\n", m.Content)
		}
	}
	if len(messages) > 0 {
		fmt.Fprintf(&sb, "\nFINAL OUTPUT\nBOT: %s\n", messages[len(messages)-1].Content)
	}
	return sb.String()
}

func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}
