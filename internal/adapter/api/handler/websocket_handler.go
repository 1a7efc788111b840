package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"campushub/internal/adapter/api/middleware"
	ws "campushub/internal/infrastructure/websocket"
	"campushub/internal/usecase"
	"campushub/pkg/errors"
)

// WebSocketHandler owns the real-time side of a user's visit: the
// connection carries inbox updates, notification badges, chat feeds
// and listing feeds, and its lifetime bounds every watch the user
// holds.
type WebSocketHandler struct {
	wsManager      *ws.Manager
	authMiddleware *middleware.AuthMiddleware

	chatUseCase         *usecase.ChatUseCase
	inboxUseCase        *usecase.InboxUseCase
	notificationUseCase *usecase.NotificationUseCase
	feedUseCase         *usecase.FeedUseCase
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func NewWebSocketHandler(
	wsManager *ws.Manager,
	authMiddleware *middleware.AuthMiddleware,
	chatUseCase *usecase.ChatUseCase,
	inboxUseCase *usecase.InboxUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	feedUseCase *usecase.FeedUseCase,
) *WebSocketHandler {
	h := &WebSocketHandler{
		wsManager:           wsManager,
		authMiddleware:      authMiddleware,
		chatUseCase:         chatUseCase,
		inboxUseCase:        inboxUseCase,
		notificationUseCase: notificationUseCase,
		feedUseCase:         feedUseCase,
	}

	wsManager.OnDisconnect(h.teardown)

	return h
}

// HandleWebSocket upgrades the connection and starts the user's
// session: inbox aggregation and the notification badge begin
// immediately, feeds and chats on demand via frames.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	// Browsers cannot set headers on WebSocket dials, so the token
	// rides in a query parameter.
	token := c.QueryParam("token")
	if token == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	sessionCtx := context.Background()

	if _, err := h.inboxUseCase.Start(sessionCtx, userID); err != nil {
		log.Printf("WebSocket Warning: inbox start failed for %s: %v", userID, err)
	}
	if err := h.notificationUseCase.StartListener(sessionCtx, userID); err != nil {
		log.Printf("WebSocket Warning: notification listener failed for %s: %v", userID, err)
	}

	go client.ReadPump(h.wsManager, h.handleFrame)
	go client.WritePump()

	return nil
}

func (h *WebSocketHandler) handleFrame(client *ws.Client, payload []byte) {
	var frame ws.InboundFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		h.sendError(client.UserID, "malformed frame")
		return
	}

	ctx := context.Background()

	switch frame.Type {
	case ws.FrameSubscribeFeed:
		var ref ws.FeedRef
		if err := json.Unmarshal(frame.Payload, &ref); err != nil || ref.Feed == "" {
			h.sendError(client.UserID, "subscribe_feed requires a feed name")
			return
		}
		if err := h.feedUseCase.Subscribe(ctx, client.UserID, ref.Feed); err != nil {
			h.sendError(client.UserID, "unknown feed: "+ref.Feed)
		}

	case ws.FrameUnsubscribeFeed:
		var ref ws.FeedRef
		if err := json.Unmarshal(frame.Payload, &ref); err != nil || ref.Feed == "" {
			h.sendError(client.UserID, "unsubscribe_feed requires a feed name")
			return
		}
		h.feedUseCase.Unsubscribe(client.UserID, ref.Feed)

	case ws.FrameOpenChat:
		var ref ws.ChatRef
		if err := json.Unmarshal(frame.Payload, &ref); err != nil || ref.ChatID == "" {
			h.sendError(client.UserID, "open_chat requires a chat_id")
			return
		}
		if _, err := h.chatUseCase.OpenSession(ctx, client.UserID, ref.ChatID); err != nil {
			log.Printf("WebSocket Error: open_chat %s for %s: %v", ref.ChatID, client.UserID, err)
			h.sendError(client.UserID, "failed to open chat")
		}

	case ws.FrameCloseChat:
		var ref ws.ChatRef
		if err := json.Unmarshal(frame.Payload, &ref); err != nil || ref.ChatID == "" {
			h.sendError(client.UserID, "close_chat requires a chat_id")
			return
		}
		h.chatUseCase.CloseSession(client.UserID, ref.ChatID)

	case ws.FrameMarkRead:
		var ref ws.ChatRef
		if err := json.Unmarshal(frame.Payload, &ref); err != nil || ref.ChatID == "" {
			h.sendError(client.UserID, "mark_read requires a chat_id")
			return
		}
		h.inboxUseCase.MarkRead(client.UserID, ref.ChatID)

	default:
		h.sendError(client.UserID, "unknown frame type: "+frame.Type)
	}
}

func (h *WebSocketHandler) sendError(userID, message string) {
	h.wsManager.SendJSONToUser(userID, ws.OutboundFrame{
		Type:    ws.FrameError,
		Payload: map[string]string{"message": message},
	})
}

// teardown releases everything the user's connection was holding.
// Each watch is cancelled exactly once.
func (h *WebSocketHandler) teardown(userID string) {
	h.chatUseCase.CloseAllSessions(userID)
	h.inboxUseCase.Stop(userID)
	h.notificationUseCase.StopListener(userID)
	h.feedUseCase.UnsubscribeAll(userID)
}
