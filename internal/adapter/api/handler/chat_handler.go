package handler

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/usecase"
	"campushub/pkg/response"
)

type ChatHandler struct {
	chatUseCase  *usecase.ChatUseCase
	inboxUseCase *usecase.InboxUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase, inboxUseCase *usecase.InboxUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase:  chatUseCase,
		inboxUseCase: inboxUseCase,
	}
}

type initiateChatRequest struct {
	OwnerID   string `json:"owner_id" validate:"required"`
	ItemType  string `json:"item_type" validate:"required,oneof=market assignment lostfound"`
	ItemID    string `json:"item_id" validate:"required"`
	ItemTitle string `json:"item_title" validate:"required"`
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type sendOfferRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// InitiateChat opens or returns the chat with an item's owner
func (h *ChatHandler) InitiateChat(c echo.Context) error {
	var req initiateChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.InitiateChat(c.Request().Context(), userID, usecase.InitiateChatInput{
		OwnerID:   req.OwnerID,
		ItemType:  req.ItemType,
		ItemID:    req.ItemID,
		ItemTitle: req.ItemTitle,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

// GetUserChats lists the caller's chats
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID := c.Get("uid").(string)

	chats, err := h.chatUseCase.ListMyChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chats)
}

// GetChatByID returns one chat the caller participates in
func (h *ChatHandler) GetChatByID(c echo.Context) error {
	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.GetChat(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

// GetChatMessages returns the chat's messages, oldest first
func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	userID := c.Get("uid").(string)

	messages, err := h.chatUseCase.GetMessages(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// SendMessage appends a message to the chat
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

// SendOffer appends a price offer to the chat
func (h *ChatHandler) SendOffer(c echo.Context) error {
	var req sendOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendOffer(c.Request().Context(), userID, c.Param("id"), req.Amount)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// MarkChatAsRead records that the caller has read the chat
func (h *ChatHandler) MarkChatAsRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	h.inboxUseCase.MarkRead(userID, c.Param("id"))

	return response.Success(c, map[string]bool{"marked": true})
}

// GetInbox returns the caller's aggregated conversation summaries
func (h *ChatHandler) GetInbox(c echo.Context) error {
	userID := c.Get("uid").(string)

	summaries := h.inboxUseCase.Summaries(userID)
	if summaries == nil {
		summaries = []*usecase.ChatSummary{}
	}

	return response.Success(c, summaries)
}
