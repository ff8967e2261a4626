package handler

import (
	"github.com/labstack/echo/v4"

	"ikam/internal/domain/entity"
	"ikam/internal/usecase"
	"ikam/pkg/response"
	"ikam/pkg/utils"
)

type ChatHandler struct {
	chatUseCase   *usecase.ChatUseCase
	unreadUseCase *usecase.UnreadUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase, unreadUseCase *usecase.UnreadUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase:   chatUseCase,
		unreadUseCase: unreadUseCase,
	}
}

type startChatRequest struct {
	PymeID string `json:"pyme_id" validate:"required"`
	Text   string `json:"mensaje"`
}

type sendMessageRequest struct {
	Text string `json:"mensaje" validate:"required,notblank,max=2000"`
}

type startChatResponse struct {
	Chat    *entity.Chat    `json:"chat"`
	Message *entity.Message `json:"message,omitempty"`
}

// StartChat opens the conversation between the caller and a pyme, sending
// the first message when one is given.
func (h *ChatHandler) StartChat(c echo.Context) error {
	var req startChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	chat, message, err := h.chatUseCase.StartChat(c.Request().Context(), userID, req.PymeID, req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, startChatResponse{Chat: chat, Message: message})
}

// GetUserChats lists the caller's conversations, newest first.
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	items, err := h.chatUseCase.GetUserChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, utils.Page(items, params), int64(len(items)), params.Page, params.PageSize)
}

func (h *ChatHandler) GetUnreadTotal(c echo.Context) error {
	userID := c.Get("uid").(string)

	total, err := h.unreadUseCase.CurrentUnreadTotal(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"total": total})
}

func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	userID := c.Get("uid").(string)

	messages, err := h.chatUseCase.GetChatMessages(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, c.Param("id"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// MarkChatAsRead clears the caller's side of the unread counters.
func (h *ChatHandler) MarkChatAsRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.chatUseCase.OpenChat(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"chat_id": c.Param("id")})
}
