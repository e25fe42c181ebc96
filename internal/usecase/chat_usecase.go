package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"swapi/internal/domain/entity"
	"swapi/internal/domain/repository"
	"swapi/internal/infrastructure/notify"
	"swapi/internal/session"
	"swapi/pkg/errors"
	"swapi/pkg/logger"
)

type ChatUseCase struct {
	chatRepo      repository.ChatRepository
	session       *session.Session
	conversations *notify.Broker[[]*entity.Conversation]
	messages      *notify.Broker[[]*entity.ChatMessage]
	now           func() time.Time
}

func NewChatUseCase(chatRepo repository.ChatRepository, sess *session.Session) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:      chatRepo,
		session:       sess,
		conversations: notify.NewBroker[[]*entity.Conversation](),
		messages:      notify.NewBroker[[]*entity.ChatMessage](),
		now:           time.Now,
	}
}

type GetOrCreateInput struct {
	OtherUserID    string
	OtherUserName  string
	OtherUserPhoto string
	PublicationID  string
}

type SendMessageInput struct {
	ConversationID string
	ReceiverID     string
	Body           string
}

// GetMine returns the signed-in user's conversations, most recently active
// first. Without a session the result is empty.
func (uc *ChatUseCase) GetMine(ctx context.Context) ([]*entity.Conversation, error) {
	user := uc.session.Current()
	if user == nil {
		return []*entity.Conversation{}, nil
	}

	all, err := uc.chatRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]*entity.Conversation, 0)
	for _, c := range all {
		if c.HasParticipant(user.ID) {
			mine = append(mine, c)
		}
	}

	sort.SliceStable(mine, func(i, j int) bool {
		a, b := mine[i].LastMessageAt, mine[j].LastMessageAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return mine, nil
}

func (uc *ChatUseCase) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	user := uc.session.Current()
	if user == nil {
		return nil, errors.NotAuthenticated()
	}

	conversation, err := uc.chatRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(user.ID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}
	return conversation, nil
}

// GetOrCreate returns the conversation between the signed-in user and the
// other user, creating it on first contact. At most one conversation exists
// per pair regardless of which side starts it.
func (uc *ChatUseCase) GetOrCreate(ctx context.Context, input GetOrCreateInput) (*entity.Conversation, error) {
	user := uc.session.Current()
	if user == nil {
		return nil, errors.NotAuthenticated()
	}
	if input.OtherUserID == "" {
		return nil, errors.BadRequest("Other user is required", nil)
	}
	if input.OtherUserID == user.ID {
		logger.Warn("GetOrCreate: user %s attempted to start a conversation with themselves", user.ID)
		return nil, errors.BadRequest("You cannot start a conversation with yourself", nil)
	}

	conversation, created, err := uc.chatRepo.FindOrCreate(ctx,
		func(c *entity.Conversation) bool {
			return c.IsBetween(user.ID, input.OtherUserID)
		},
		func() *entity.Conversation {
			return &entity.Conversation{
				ID: uuid.NewString(),
				Participants: []entity.Participant{
					{UserID: user.ID, UserName: user.Name, UserPhoto: user.Photo},
					{UserID: input.OtherUserID, UserName: input.OtherUserName, UserPhoto: input.OtherUserPhoto},
				},
				PublicationID: input.PublicationID,
				UnreadCount:   0,
			}
		},
	)
	if err != nil {
		logger.Error("GetOrCreate conversation failed: %v", err)
		return nil, err
	}

	if created {
		logger.Info("Conversation %s created between %s and %s", conversation.ID, user.ID, input.OtherUserID)
		uc.publishConversations(ctx)
	}
	return conversation, nil
}

// GetMessages returns the conversation's messages ordered by timestamp.
// Messages with equal timestamps keep their insertion order.
func (uc *ChatUseCase) GetMessages(ctx context.Context, conversationID string) ([]*entity.ChatMessage, error) {
	all, err := uc.chatRepo.ListMessages(ctx)
	if err != nil {
		return nil, err
	}

	messages := make([]*entity.ChatMessage, 0)
	for _, m := range all {
		if m.ConversationID == conversationID {
			messages = append(messages, m)
		}
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	uc.messages.Publish(messages)
	return messages, nil
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, input SendMessageInput) (*entity.ChatMessage, error) {
	user := uc.session.Current()
	if user == nil {
		return nil, errors.NotAuthenticated()
	}

	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}

	conversation, err := uc.chatRepo.GetByID(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(user.ID) {
		logger.Warn("SendMessage: user %s is not in conversation %s", user.ID, conversation.ID)
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}
	if input.ReceiverID == user.ID || !conversation.HasParticipant(input.ReceiverID) {
		return nil, errors.BadRequest("Receiver is not the other participant of this conversation", nil)
	}

	message := &entity.ChatMessage{
		ID:             uuid.NewString(),
		ConversationID: conversation.ID,
		SenderID:       user.ID,
		SenderName:     user.Name,
		ReceiverID:     input.ReceiverID,
		Body:           body,
		Timestamp:      uc.now(),
		Read:           false,
	}

	// unreadCount is left as written at creation. A conversation deleted
	// since the checks above fails here with NOT_FOUND and nothing is stored.
	sentAt := message.Timestamp
	if _, err := uc.chatRepo.AppendMessage(ctx, message, func(c *entity.Conversation) {
		c.LastMessage = body
		c.LastMessageAt = &sentAt
	}); err != nil {
		logger.Error("SendMessage: failed to store message in %s: %v", conversation.ID, err)
		return nil, err
	}

	uc.publishConversations(ctx)
	if _, err := uc.GetMessages(ctx, conversation.ID); err != nil {
		logger.Warn("Message change notification skipped: %v", err)
	}
	return message, nil
}

// MarkMessagesAsRead flips every unread message addressed to the signed-in
// user in the conversation and returns how many changed.
func (uc *ChatUseCase) MarkMessagesAsRead(ctx context.Context, conversationID string) (int, error) {
	user := uc.session.Current()
	if user == nil {
		return 0, nil
	}

	changed, err := uc.chatRepo.UpdateMessages(ctx, func(m *entity.ChatMessage) bool {
		if m.ConversationID != conversationID || m.ReceiverID != user.ID || m.Read {
			return false
		}
		m.Read = true
		return true
	})
	if err != nil {
		return 0, err
	}

	if changed > 0 {
		if _, err := uc.GetMessages(ctx, conversationID); err != nil {
			logger.Warn("Message change notification skipped: %v", err)
		}
	}
	return changed, nil
}

// GetUnreadCount counts unread messages addressed to the signed-in user
// across all conversations.
func (uc *ChatUseCase) GetUnreadCount(ctx context.Context) (int, error) {
	user := uc.session.Current()
	if user == nil {
		return 0, nil
	}

	messages, err := uc.chatRepo.ListMessages(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range messages {
		if m.ReceiverID == user.ID && !m.Read {
			count++
		}
	}
	return count, nil
}

// DeleteConversation removes the conversation together with its messages.
// Messages go first, so an interrupted call never leaves orphaned messages
// and repeating it finishes the job.
func (uc *ChatUseCase) DeleteConversation(ctx context.Context, id string) error {
	deleted, err := uc.chatRepo.DeleteConversation(ctx, id)
	if err != nil {
		logger.Error("DeleteConversation: failed to delete %s: %v", id, err)
		return err
	}
	logger.Info("Conversation %s deleted with %d messages", id, deleted)

	uc.publishConversations(ctx)
	return nil
}

// SubscribeConversations registers fn to receive the conversation list after
// every change.
func (uc *ChatUseCase) SubscribeConversations(fn func(conversations []*entity.Conversation)) (unsubscribe func()) {
	return uc.conversations.Subscribe(fn)
}

// SubscribeMessages registers fn to receive the messages of the conversation
// most recently loaded or written to.
func (uc *ChatUseCase) SubscribeMessages(fn func(messages []*entity.ChatMessage)) (unsubscribe func()) {
	return uc.messages.Subscribe(fn)
}

func (uc *ChatUseCase) publishConversations(ctx context.Context) {
	conversations, err := uc.chatRepo.List(ctx)
	if err != nil {
		logger.Warn("Conversation change notification skipped: %v", err)
		return
	}
	uc.conversations.Publish(conversations)
}
