package repository

import (
	"context"

	"campushub/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	Update(ctx context.Context, chat *entity.Chat) error
	ListByParticipant(ctx context.Context, userID string) ([]*entity.Chat, error)

	// ListByItemOwner returns chats about items the user authored,
	// regardless of who initiated them.
	ListByItemOwner(ctx context.Context, userID string) ([]*entity.Chat, error)

	// ListChatIDsBySender returns the ids of chats the user has sent at
	// least one message into (collection-group query over message logs).
	ListChatIDsBySender(ctx context.Context, userID string) ([]string, error)

	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error)

	// WatchMessages delivers the full ordered message set for a chat on
	// every change, oldest first.
	WatchMessages(ctx context.Context, chatID string) (<-chan []*entity.Message, CancelFunc, error)
}
