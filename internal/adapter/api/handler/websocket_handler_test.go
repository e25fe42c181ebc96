package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapi/internal/adapter/repository"
	"swapi/internal/domain/entity"
	"swapi/internal/infrastructure/kvstore"
	ws "swapi/internal/infrastructure/websocket"
	"swapi/internal/session"
	"swapi/internal/usecase"
)

type feedEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// readUntil skips frames until one of the wanted type with a non-null payload
// arrives.
func readUntil(t *testing.T, conn *gorillaws.Conn, eventType string) feedEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var event feedEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		if event.Type == eventType && string(event.Data) != "null" {
			return event
		}
	}
}

func TestFollowForwardsChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := kvstore.New(kvstore.NewMemoryBackend())
	sess := session.New()
	authUseCase := usecase.NewAuthUseCase(
		repository.NewKVUserRepository(store),
		repository.NewKVSessionRepository(store),
		sess,
	)
	publicationUseCase := usecase.NewPublicationUseCase(repository.NewKVPublicationRepository(store), sess)
	chatUseCase := usecase.NewChatUseCase(repository.NewKVChatRepository(store), sess)

	manager := ws.NewManager()
	manager.Start(ctx)

	h := NewWebSocketHandler(manager)
	stop := h.Follow(sess, publicationUseCase, chatUseCase)
	defer stop()

	e := echo.New()
	e.GET("/ws", h.HandleWebSocket)
	server := httptest.NewServer(e)
	defer server.Close()

	conn, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return manager.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err = authUseCase.Register(ctx, usecase.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	event := readUntil(t, conn, ws.EventSession)
	var user entity.User
	require.NoError(t, json.Unmarshal(event.Data, &user))
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.Password)

	event = readUntil(t, conn, ws.EventNavigate)
	var target string
	require.NoError(t, json.Unmarshal(event.Data, &target))
	assert.Equal(t, session.NavigateAuthenticated, target)

	_, err = publicationUseCase.Create(ctx, usecase.CreatePublicationInput{
		Type:        entity.PublicationTypeProduct,
		Category:    "hogar",
		Title:       "Bicicleta",
		Description: "Aro 26",
	})
	require.NoError(t, err)

	event = readUntil(t, conn, ws.EventPublications)
	var publications []entity.Publication
	require.NoError(t, json.Unmarshal(event.Data, &publications))
	require.Len(t, publications, 1)
	assert.Equal(t, "Bicicleta", publications[0].Title)
}

func TestFollowOnlySendsOwnConversations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := kvstore.New(kvstore.NewMemoryBackend())
	sess := session.New()
	authUseCase := usecase.NewAuthUseCase(
		repository.NewKVUserRepository(store),
		repository.NewKVSessionRepository(store),
		sess,
	)
	publicationUseCase := usecase.NewPublicationUseCase(repository.NewKVPublicationRepository(store), sess)
	chatUseCase := usecase.NewChatUseCase(repository.NewKVChatRepository(store), sess)

	register := func(name, email string) *entity.User {
		user, err := authUseCase.Register(ctx, usecase.RegisterInput{Name: name, Email: email, Password: "secret"})
		require.NoError(t, err)
		return user
	}
	alice := register("Alice", "alice@example.com")
	register("Bob", "bob@example.com")
	private, err := chatUseCase.GetOrCreate(ctx, usecase.GetOrCreateInput{OtherUserID: alice.ID, OtherUserName: "Alice"})
	require.NoError(t, err)
	_, err = chatUseCase.SendMessage(ctx, usecase.SendMessageInput{ConversationID: private.ID, ReceiverID: alice.ID, Body: "secreto"})
	require.NoError(t, err)

	manager := ws.NewManager()
	manager.Start(ctx)
	h := NewWebSocketHandler(manager)
	stop := h.Follow(sess, publicationUseCase, chatUseCase)
	defer stop()

	e := echo.New()
	e.GET("/ws", h.HandleWebSocket)
	server := httptest.NewServer(e)
	defer server.Close()

	conn, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return manager.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	register("Carol", "carol@example.com")
	own, err := chatUseCase.GetOrCreate(ctx, usecase.GetOrCreateInput{OtherUserID: alice.ID, OtherUserName: "Alice"})
	require.NoError(t, err)

	// Skip lists published before Carol's conversation existed.
	var conversations []entity.Conversation
	for {
		event := readUntil(t, conn, ws.EventConversations)
		require.NoError(t, json.Unmarshal(event.Data, &conversations))
		if len(conversations) > 0 && conversations[len(conversations)-1].ID == own.ID {
			break
		}
	}
	require.Len(t, conversations, 1)
	assert.NotEqual(t, private.ID, conversations[0].ID)
}

func TestVisibleMessages(t *testing.T) {
	carol := &entity.User{ID: "carol"}
	messages := []*entity.ChatMessage{
		{ID: "m1", SenderID: "bob", ReceiverID: "alice"},
		{ID: "m2", SenderID: "carol", ReceiverID: "alice"},
		{ID: "m3", SenderID: "alice", ReceiverID: "carol"},
	}

	visible := visibleMessages(carol, messages)
	require.Len(t, visible, 2)
	assert.Equal(t, "m2", visible[0].ID)
	assert.Equal(t, "m3", visible[1].ID)

	assert.Empty(t, visibleMessages(nil, messages))
	assert.Empty(t, visibleConversations(nil, []*entity.Conversation{{ID: "c1"}}))
}
