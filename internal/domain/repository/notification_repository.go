package repository

import (
	"context"

	"campushub/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListRecent(ctx context.Context, recipientID string, limit int) ([]*entity.Notification, error)
	ListUnread(ctx context.Context, recipientID string) ([]*entity.Notification, error)

	// MarkRead flips the read flag on every listed notification in one
	// atomic batch; either all of them are marked or none are.
	MarkRead(ctx context.Context, ids []string) error

	WatchUnreadCount(ctx context.Context, recipientID string) (<-chan int, CancelFunc, error)
}
