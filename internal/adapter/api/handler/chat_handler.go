package handler

import (
	"github.com/labstack/echo/v4"

	"swapi/internal/usecase"
	"swapi/pkg/errors"
	"swapi/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createChatRequest struct {
	OtherUserID    string `json:"other_user_id" validate:"required"`
	OtherUserName  string `json:"other_user_name" validate:"required,notblank"`
	OtherUserPhoto string `json:"other_user_photo" validate:"omitempty,url"`
	PublicationID  string `json:"publication_id"`
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Body       string `json:"body" validate:"required,notblank,max=4000"`
}

func (h *ChatHandler) GetUserChats(c echo.Context) error {
	conversations, err := h.chatUseCase.GetMine(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversations)
}

// CreateChat returns the conversation with the other user, starting it if needed.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	conversation, err := h.chatUseCase.GetOrCreate(c.Request().Context(), usecase.GetOrCreateInput{
		OtherUserID:    req.OtherUserID,
		OtherUserName:  req.OtherUserName,
		OtherUserPhoto: req.OtherUserPhoto,
		PublicationID:  req.PublicationID,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversation)
}

func (h *ChatHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.chatUseCase.GetUnreadCount(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"count": count})
}

func (h *ChatHandler) GetChatByID(c echo.Context) error {
	conversation, err := h.chatUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversation)
}

func (h *ChatHandler) DeleteChat(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if _, err := h.chatUseCase.GetByID(ctx, id); err != nil {
		return response.Error(c, err)
	}
	if err := h.chatUseCase.DeleteConversation(ctx, id); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"id": id})
}

func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if _, err := h.chatUseCase.GetByID(ctx, id); err != nil {
		return response.Error(c, err)
	}

	messages, err := h.chatUseCase.GetMessages(ctx, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), usecase.SendMessageInput{
		ConversationID: c.Param("id"),
		ReceiverID:     req.ReceiverID,
		Body:           req.Body,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *ChatHandler) MarkChatAsRead(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if _, err := h.chatUseCase.GetByID(ctx, id); err != nil {
		return response.Error(c, err)
	}

	updated, err := h.chatUseCase.MarkMessagesAsRead(ctx, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"updated": updated})
}
