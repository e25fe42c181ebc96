package repository

import (
	"context"

	"swapi/internal/domain/entity"
)

type ChatRepository interface {
	// FindOrCreate returns the first conversation accepted by match, or stores
	// the one built by create. The lookup and the insert are atomic.
	FindOrCreate(ctx context.Context, match func(c *entity.Conversation) bool, create func() *entity.Conversation) (conversation *entity.Conversation, created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	List(ctx context.Context) ([]*entity.Conversation, error)
	// DeleteConversation removes the conversation's messages and then the
	// conversation. It returns the number of messages removed.
	DeleteConversation(ctx context.Context, id string) (int, error)

	// Message methods
	CreateMessage(ctx context.Context, message *entity.ChatMessage) error
	// AppendMessage stores message and applies touch to its conversation.
	// It fails with NOT_FOUND, writing nothing, when the conversation does
	// not exist. It never interleaves with DeleteConversation.
	AppendMessage(ctx context.Context, message *entity.ChatMessage, touch func(c *entity.Conversation)) (*entity.Conversation, error)
	// ListMessages returns messages in insertion order.
	ListMessages(ctx context.Context) ([]*entity.ChatMessage, error)
	// UpdateMessages calls fn on every message and persists only if fn
	// reported at least one change. It returns the number of changed messages.
	UpdateMessages(ctx context.Context, fn func(m *entity.ChatMessage) bool) (int, error)
}
