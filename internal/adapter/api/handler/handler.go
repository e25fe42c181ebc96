package handler

import (
	"swapi/internal/infrastructure/kvstore"
	ws "swapi/internal/infrastructure/websocket"
	"swapi/internal/usecase"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Publication *PublicationHandler
	Chat        *ChatHandler
	Health      *HealthHandler
	WebSocket   *WebSocketHandler
}

func Setup(
	authUseCase *usecase.AuthUseCase,
	publicationUseCase *usecase.PublicationUseCase,
	chatUseCase *usecase.ChatUseCase,
	store *kvstore.Store,
	storageDriver string,
	wsManager *ws.Manager,
) *Handlers {
	return &Handlers{
		Auth:        NewAuthHandler(authUseCase),
		User:        NewUserHandler(authUseCase),
		Publication: NewPublicationHandler(publicationUseCase),
		Chat:        NewChatHandler(chatUseCase),
		Health:      NewHealthHandler(store, storageDriver),
		WebSocket:   NewWebSocketHandler(wsManager),
	}
}
