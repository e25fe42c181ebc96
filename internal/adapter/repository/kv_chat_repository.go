package repository

import (
	"context"
	"sync"

	"swapi/internal/domain/entity"
	"swapi/internal/domain/repository"
	"swapi/internal/infrastructure/kvstore"
	"swapi/pkg/errors"
)

const (
	conversationsKey = "conversations"
	messagesKey      = "messages"
)

type kvChatRepository struct {
	// threads serialises message appends against conversation deletes, which
	// span both collections.
	threads sync.Mutex

	conversations *kvstore.Collection[entity.Conversation]
	messages      *kvstore.Collection[entity.ChatMessage]
}

func NewKVChatRepository(store *kvstore.Store) repository.ChatRepository {
	return &kvChatRepository{
		conversations: kvstore.NewCollection[entity.Conversation](store, conversationsKey),
		messages:      kvstore.NewCollection[entity.ChatMessage](store, messagesKey),
	}
}

func (r *kvChatRepository) FindOrCreate(
	ctx context.Context,
	match func(c *entity.Conversation) bool,
	create func() *entity.Conversation,
) (*entity.Conversation, bool, error) {
	var (
		result  entity.Conversation
		created bool
	)

	_, err := r.conversations.Update(ctx, func(doc *kvstore.Document[entity.Conversation]) (bool, error) {
		for _, conversation := range doc.List() {
			conversation := conversation
			if match(&conversation) {
				result = conversation
				return false, nil
			}
		}

		conversation := create()
		doc.Append(conversation.ID, *conversation)
		result = *conversation
		created = true
		return true, nil
	})
	if err != nil {
		return nil, false, err
	}
	return &result, created, nil
}

func (r *kvChatRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.conversations.Load(ctx)
	if err != nil {
		return nil, err
	}

	conversation, ok := doc.Get(id)
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return &conversation, nil
}

func (r *kvChatRepository) List(ctx context.Context) ([]*entity.Conversation, error) {
	doc, err := r.conversations.Load(ctx)
	if err != nil {
		return nil, err
	}

	items := doc.List()
	conversations := make([]*entity.Conversation, len(items))
	for i := range items {
		conversations[i] = &items[i]
	}
	return conversations, nil
}

func (r *kvChatRepository) modify(ctx context.Context, id string, fn func(c *entity.Conversation)) (*entity.Conversation, error) {
	var updated entity.Conversation
	_, err := r.conversations.Update(ctx, func(doc *kvstore.Document[entity.Conversation]) (bool, error) {
		conversation, ok := doc.Get(id)
		if !ok {
			return false, errors.NotFound("Conversation", nil)
		}
		fn(&conversation)
		conversation.ID = id
		doc.Replace(id, conversation)
		updated = conversation
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *kvChatRepository) DeleteConversation(ctx context.Context, id string) (int, error) {
	r.threads.Lock()
	defer r.threads.Unlock()

	// Messages go first so a failed second write never leaves orphans.
	deleted, err := r.deleteMessages(ctx, func(m *entity.ChatMessage) bool {
		return m.ConversationID == id
	})
	if err != nil {
		return 0, err
	}

	_, err = r.conversations.Update(ctx, func(doc *kvstore.Document[entity.Conversation]) (bool, error) {
		return doc.Delete(id), nil
	})
	if err != nil {
		return deleted, err
	}
	return deleted, nil
}

func (r *kvChatRepository) AppendMessage(
	ctx context.Context,
	message *entity.ChatMessage,
	touch func(c *entity.Conversation),
) (*entity.Conversation, error) {
	r.threads.Lock()
	defer r.threads.Unlock()

	if _, err := r.GetByID(ctx, message.ConversationID); err != nil {
		return nil, err
	}
	if err := r.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return r.modify(ctx, message.ConversationID, touch)
}

func (r *kvChatRepository) CreateMessage(ctx context.Context, message *entity.ChatMessage) error {
	_, err := r.messages.Update(ctx, func(doc *kvstore.Document[entity.ChatMessage]) (bool, error) {
		doc.Append(message.ID, *message)
		return true, nil
	})
	return err
}

func (r *kvChatRepository) ListMessages(ctx context.Context) ([]*entity.ChatMessage, error) {
	doc, err := r.messages.Load(ctx)
	if err != nil {
		return nil, err
	}

	items := doc.List()
	messages := make([]*entity.ChatMessage, len(items))
	for i := range items {
		messages[i] = &items[i]
	}
	return messages, nil
}

func (r *kvChatRepository) UpdateMessages(ctx context.Context, fn func(m *entity.ChatMessage) bool) (int, error) {
	changed := 0
	_, err := r.messages.Update(ctx, func(doc *kvstore.Document[entity.ChatMessage]) (bool, error) {
		for _, id := range doc.Order {
			message, ok := doc.Items[id]
			if !ok {
				continue
			}
			if fn(&message) {
				doc.Items[id] = message
				changed++
			}
		}
		return changed > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

func (r *kvChatRepository) deleteMessages(ctx context.Context, match func(m *entity.ChatMessage) bool) (int, error) {
	deleted := 0
	_, err := r.messages.Update(ctx, func(doc *kvstore.Document[entity.ChatMessage]) (bool, error) {
		for _, message := range doc.List() {
			message := message
			if match(&message) {
				doc.Delete(message.ID)
				deleted++
			}
		}
		return deleted > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
