package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"swapi/internal/domain/entity"
	ws "swapi/internal/infrastructure/websocket"
	"swapi/internal/session"
	"swapi/internal/usecase"
	"swapi/pkg/errors"
	"swapi/pkg/logger"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(wsManager *ws.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
	}
}

// HandleWebSocket upgrades the request and attaches it to the change feed.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := ws.NewClient(c.RealIP(), conn)
	if !h.wsManager.Add(client) {
		conn.Close()
		return nil
	}

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}

// Follow forwards session, navigation and collection changes to the feed.
// Conversations and messages are limited to those of the signed-in user.
// The returned function stops forwarding.
func (h *WebSocketHandler) Follow(
	sess *session.Session,
	publicationUseCase *usecase.PublicationUseCase,
	chatUseCase *usecase.ChatUseCase,
) (stop func()) {
	stops := []func(){
		sess.Subscribe(func(user *entity.User) {
			h.broadcast(ws.EventSession, user)
		}),
		sess.OnNavigate(func(target string) {
			h.broadcast(ws.EventNavigate, target)
		}),
		publicationUseCase.Subscribe(func(publications []*entity.Publication) {
			h.broadcast(ws.EventPublications, publications)
		}),
		chatUseCase.SubscribeConversations(func(conversations []*entity.Conversation) {
			h.broadcast(ws.EventConversations, visibleConversations(sess.Current(), conversations))
		}),
		chatUseCase.SubscribeMessages(func(messages []*entity.ChatMessage) {
			if visible := visibleMessages(sess.Current(), messages); len(visible) > 0 {
				h.broadcast(ws.EventMessages, visible)
			}
		}),
	}

	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

func (h *WebSocketHandler) broadcast(eventType string, data interface{}) {
	if err := h.wsManager.Broadcast(eventType, data); err != nil {
		logger.Error("Feed %s event could not be encoded: %v", eventType, err)
	}
}

func visibleConversations(user *entity.User, conversations []*entity.Conversation) []*entity.Conversation {
	visible := make([]*entity.Conversation, 0, len(conversations))
	if user == nil {
		return visible
	}
	for _, c := range conversations {
		if c.HasParticipant(user.ID) {
			visible = append(visible, c)
		}
	}
	return visible
}

func visibleMessages(user *entity.User, messages []*entity.ChatMessage) []*entity.ChatMessage {
	if user == nil {
		return nil
	}
	var visible []*entity.ChatMessage
	for _, m := range messages {
		if m.SenderID == user.ID || m.ReceiverID == user.ID {
			visible = append(visible, m)
		}
	}
	return visible
}
