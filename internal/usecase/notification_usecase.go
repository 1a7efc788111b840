package usecase

import (
	"context"
	"log"
	"sync"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	ws "campushub/internal/infrastructure/websocket"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	wsManager        *ws.Manager
	panelSize        int

	mu        sync.Mutex
	listeners map[string]repository.CancelFunc
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository, wsManager *ws.Manager, panelSize int) *NotificationUseCase {
	if panelSize <= 0 {
		panelSize = 10
	}
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		wsManager:        wsManager,
		panelSize:        panelSize,
		listeners:        make(map[string]repository.CancelFunc),
	}
}

// StartListener begins streaming the user's unread badge count over
// WebSocket. A listener already running for the user is replaced. A
// watch failure degrades to a zero badge rather than an error.
func (uc *NotificationUseCase) StartListener(ctx context.Context, userID string) error {
	uc.StopListener(userID)

	feed, cancel, err := uc.notificationRepo.WatchUnreadCount(ctx, userID)
	if err != nil {
		log.Printf("StartListener Error: failed to watch notifications for %s: %v", userID, err)
		uc.pushBadge(userID, 0)
		return nil
	}

	uc.mu.Lock()
	uc.listeners[userID] = cancel
	uc.mu.Unlock()

	go func() {
		for count := range feed {
			uc.pushBadge(userID, count)
		}
		// Watch ended; a dead badge should not keep showing a count.
		uc.pushBadge(userID, 0)
	}()

	return nil
}

// StopListener cancels the user's badge watch, if any.
func (uc *NotificationUseCase) StopListener(userID string) {
	uc.mu.Lock()
	cancel, ok := uc.listeners[userID]
	if ok {
		delete(uc.listeners, userID)
	}
	uc.mu.Unlock()

	if ok {
		cancel()
	}
}

func (uc *NotificationUseCase) pushBadge(userID string, count int) {
	uc.wsManager.SendJSONToUser(userID, ws.OutboundFrame{
		Type:    ws.FrameNotificationBadge,
		Payload: map[string]int{"unread": count},
	})
}

// OpenPanel returns the most recent notifications and marks the unread
// ones among them read in a single atomic batch. The returned items
// reflect the state as displayed, so callers see which were new.
func (uc *NotificationUseCase) OpenPanel(ctx context.Context, userID string) ([]*entity.Notification, error) {
	notifications, err := uc.notificationRepo.ListRecent(ctx, userID, uc.panelSize)
	if err != nil {
		return nil, err
	}

	var unreadIDs []string
	for _, n := range notifications {
		if !n.IsRead {
			unreadIDs = append(unreadIDs, n.ID)
		}
	}

	if len(unreadIDs) > 0 {
		if err := uc.notificationRepo.MarkRead(ctx, unreadIDs); err != nil {
			log.Printf("OpenPanel Error: failed to mark notifications read for %s: %v", userID, err)
			return nil, err
		}
	}

	return notifications, nil
}

// MarkAllRead clears every unread notification the user has, not just
// the ones the panel shows.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	unread, err := uc.notificationRepo.ListUnread(ctx, userID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(unread))
	for _, n := range unread {
		ids = append(ids, n.ID)
	}

	return uc.notificationRepo.MarkRead(ctx, ids)
}

// Notify writes a notification record; failures are the caller's to
// decide on.
func (uc *NotificationUseCase) Notify(ctx context.Context, notification *entity.Notification) error {
	return uc.notificationRepo.Create(ctx, notification)
}
