package websocket

import "encoding/json"

// Inbound frame types sent by clients.
const (
	FrameSubscribeFeed   = "subscribe_feed"
	FrameUnsubscribeFeed = "unsubscribe_feed"
	FrameOpenChat        = "open_chat"
	FrameCloseChat       = "close_chat"
	FrameMarkRead        = "mark_read"
)

// Outbound frame types pushed by the server.
const (
	FrameInboxUpdate       = "inbox_update"
	FrameNotificationBadge = "notification_badge"
	FrameChatMessages      = "chat_messages"
	FrameFeedUpdate        = "feed_update"
	FrameError             = "error"
)

// InboundFrame is the envelope for client commands. Payload is decoded
// per frame type by the handler.
type InboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutboundFrame is the envelope for server pushes.
type OutboundFrame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ChatRef identifies a chat for open/close/mark_read commands.
type ChatRef struct {
	ChatID string `json:"chat_id"`
}

// FeedRef identifies a collection feed for subscribe/unsubscribe.
type FeedRef struct {
	Feed string `json:"feed"`
}
