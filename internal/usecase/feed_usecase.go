package usecase

import (
	"context"
	"log"
	"sync"

	"campushub/internal/domain/repository"
	ws "campushub/internal/infrastructure/websocket"
	"campushub/pkg/errors"
)

// Feed names clients can subscribe to.
const (
	FeedMarket      = "market"
	FeedAssignments = "assignments"
	FeedLostFound   = "lostfound"
	FeedEvents      = "events"
)

// FeedUseCase streams whole-collection snapshots to subscribed users:
// the listing pages re-render from each push instead of polling.
type FeedUseCase struct {
	marketRepo     repository.MarketRepository
	assignmentRepo repository.AssignmentRepository
	lostFoundRepo  repository.LostFoundRepository
	eventRepo      repository.EventRepository
	wsManager      *ws.Manager

	mu   sync.Mutex
	subs map[string]map[string]repository.CancelFunc // userID → feed → cancel
}

func NewFeedUseCase(
	marketRepo repository.MarketRepository,
	assignmentRepo repository.AssignmentRepository,
	lostFoundRepo repository.LostFoundRepository,
	eventRepo repository.EventRepository,
	wsManager *ws.Manager,
) *FeedUseCase {
	return &FeedUseCase{
		marketRepo:     marketRepo,
		assignmentRepo: assignmentRepo,
		lostFoundRepo:  lostFoundRepo,
		eventRepo:      eventRepo,
		wsManager:      wsManager,
		subs:           make(map[string]map[string]repository.CancelFunc),
	}
}

// Subscribe starts pushing feed_update frames for the named feed to
// the user. Subscribing twice to the same feed is a no-op.
func (uc *FeedUseCase) Subscribe(ctx context.Context, userID, feed string) error {
	uc.mu.Lock()
	if _, ok := uc.subs[userID][feed]; ok {
		uc.mu.Unlock()
		return nil
	}
	uc.mu.Unlock()

	cancel, err := uc.watch(ctx, userID, feed)
	if err != nil {
		return err
	}

	uc.mu.Lock()
	if uc.subs[userID] == nil {
		uc.subs[userID] = make(map[string]repository.CancelFunc)
	}
	if _, ok := uc.subs[userID][feed]; ok {
		// Lost the race to a concurrent subscribe; drop ours.
		uc.mu.Unlock()
		cancel()
		return nil
	}
	uc.subs[userID][feed] = cancel
	uc.mu.Unlock()

	return nil
}

func (uc *FeedUseCase) watch(ctx context.Context, userID, feed string) (repository.CancelFunc, error) {
	switch feed {
	case FeedMarket:
		items, cancel, err := uc.marketRepo.WatchAll(ctx)
		if err != nil {
			return nil, err
		}
		go forwardFeed(uc.wsManager, userID, feed, items)
		return cancel, nil
	case FeedAssignments:
		items, cancel, err := uc.assignmentRepo.WatchAll(ctx)
		if err != nil {
			return nil, err
		}
		go forwardFeed(uc.wsManager, userID, feed, items)
		return cancel, nil
	case FeedLostFound:
		items, cancel, err := uc.lostFoundRepo.WatchAll(ctx)
		if err != nil {
			return nil, err
		}
		go forwardFeed(uc.wsManager, userID, feed, items)
		return cancel, nil
	case FeedEvents:
		items, cancel, err := uc.eventRepo.WatchApproved(ctx)
		if err != nil {
			return nil, err
		}
		go forwardFeed(uc.wsManager, userID, feed, items)
		return cancel, nil
	default:
		return nil, errors.BadRequest("Unknown feed: "+feed, nil)
	}
}

func forwardFeed[T any](manager *ws.Manager, userID, feed string, items <-chan []*T) {
	for snapshot := range items {
		manager.SendJSONToUser(userID, ws.OutboundFrame{
			Type: ws.FrameFeedUpdate,
			Payload: map[string]interface{}{
				"feed":  feed,
				"items": snapshot,
			},
		})
	}
	log.Printf("Feed %s for user %s ended", feed, userID)
}

// Unsubscribe stops the user's watch on the named feed.
func (uc *FeedUseCase) Unsubscribe(userID, feed string) {
	uc.mu.Lock()
	cancel, ok := uc.subs[userID][feed]
	if ok {
		delete(uc.subs[userID], feed)
	}
	uc.mu.Unlock()

	if ok {
		cancel()
	}
}

// UnsubscribeAll tears down every feed the user is watching, used on
// disconnect.
func (uc *FeedUseCase) UnsubscribeAll(userID string) {
	uc.mu.Lock()
	feeds := uc.subs[userID]
	delete(uc.subs, userID)
	uc.mu.Unlock()

	for _, cancel := range feeds {
		cancel()
	}
}
