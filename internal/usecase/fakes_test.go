package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	"campushub/pkg/errors"
)

// In-memory fakes for the domain repositories. Watch feeds are plain
// channels the tests push snapshots into.

var fakeClock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeWatch struct {
	feed      chan []*entity.Message
	closeOnce sync.Once
}

func (w *fakeWatch) close() {
	w.closeOnce.Do(func() { close(w.feed) })
}

type fakeChatRepo struct {
	mu          sync.Mutex
	chats       map[string]*entity.Chat
	messages    map[string][]*entity.Message
	watchers    map[string][]*fakeWatch
	cancelCount map[string]int
	seq         int
	watchErr    error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:       make(map[string]*entity.Chat),
		messages:    make(map[string][]*entity.Message),
		watchers:    make(map[string][]*fakeWatch),
		cancelCount: make(map[string]int),
	}
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := fakeClock
	chat.CreatedAt = now
	chat.UpdatedAt = now
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat not found", nil)
	}
	return chat, nil
}

func (r *fakeChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepo) ListByParticipant(ctx context.Context, userID string) ([]*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var chats []*entity.Chat
	for _, chat := range r.chats {
		if chat.HasParticipant(userID) {
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

func (r *fakeChatRepo) ListByItemOwner(ctx context.Context, userID string) ([]*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var chats []*entity.Chat
	for _, chat := range r.chats {
		if chat.ItemOwnerID == userID {
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

func (r *fakeChatRepo) ListChatIDsBySender(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var ids []string
	for chatID, messages := range r.messages {
		for _, m := range messages {
			if m.SenderID == userID && !seen[chatID] {
				seen[chatID] = true
				ids = append(ids, chatID)
			}
		}
	}
	return ids, nil
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d", r.seq)
	}
	message.CreatedAt = fakeClock.Add(time.Duration(r.seq) * time.Second)
	r.messages[message.ChatID] = append(r.messages[message.ChatID], message)
	return nil
}

func (r *fakeChatRepo) GetMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.Message(nil), r.messages[chatID]...), nil
}

func (r *fakeChatRepo) WatchMessages(ctx context.Context, chatID string) (<-chan []*entity.Message, repository.CancelFunc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watchErr != nil {
		return nil, nil, r.watchErr
	}

	watch := &fakeWatch{feed: make(chan []*entity.Message, 8)}
	r.watchers[chatID] = append(r.watchers[chatID], watch)

	var once sync.Once
	cancel := repository.CancelFunc(func() {
		once.Do(func() {
			r.mu.Lock()
			r.cancelCount[chatID]++
			kept := r.watchers[chatID][:0]
			for _, w := range r.watchers[chatID] {
				if w != watch {
					kept = append(kept, w)
				}
			}
			r.watchers[chatID] = kept
			r.mu.Unlock()
			watch.close()
		})
	})

	return watch.feed, cancel, nil
}

// emit pushes a snapshot to every open watcher of the chat.
func (r *fakeChatRepo) emit(chatID string, messages []*entity.Message) {
	r.mu.Lock()
	watchers := append([]*fakeWatch(nil), r.watchers[chatID]...)
	r.mu.Unlock()
	for _, w := range watchers {
		w.feed <- messages
	}
}

// endWatch closes the chat's watchers in place, simulating a stream
// failure. A later cancel of the same watch stays a no-op.
func (r *fakeChatRepo) endWatch(chatID string) {
	r.mu.Lock()
	watchers := append([]*fakeWatch(nil), r.watchers[chatID]...)
	r.mu.Unlock()
	for _, w := range watchers {
		w.close()
	}
}

func (r *fakeChatRepo) watcherCount(chatID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watchers[chatID])
}

func (r *fakeChatRepo) cancels(chatID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelCount[chatID]
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User not found", nil)
	}
	return user, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	markedBatches [][]string
	createErr     error
	seq           int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	if notification.ID == "" {
		notification.ID = fmt.Sprintf("notif-%d", r.seq)
	}
	notification.CreatedAt = fakeClock.Add(time.Duration(r.seq) * time.Minute)
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *fakeNotificationRepo) ListRecent(ctx context.Context, recipientID string, limit int) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for i := len(r.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if r.notifications[i].RecipientID == recipientID {
			out = append(out, r.notifications[i])
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) ListUnread(ctx context.Context, recipientID string) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markedBatches = append(r.markedBatches, ids)
	for _, id := range ids {
		for _, n := range r.notifications {
			if n.ID == id {
				n.IsRead = true
			}
		}
	}
	return nil
}

func (r *fakeNotificationRepo) WatchUnreadCount(ctx context.Context, recipientID string) (<-chan int, repository.CancelFunc, error) {
	feed := make(chan int, 8)
	var once sync.Once
	cancel := repository.CancelFunc(func() {
		once.Do(func() { close(feed) })
	})
	return feed, cancel, nil
}

func (r *fakeNotificationRepo) byRecipient(recipientID string) []*entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

type fakeMarketRepo struct {
	mu        sync.Mutex
	items     map[string]*entity.MarketItem
	getCalls  int
	deleted   []string
	deleteErr error
	seq       int
}

func newFakeMarketRepo(items ...*entity.MarketItem) *fakeMarketRepo {
	r := &fakeMarketRepo{items: make(map[string]*entity.MarketItem)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeMarketRepo) Create(ctx context.Context, item *entity.MarketItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if item.ID == "" {
		item.ID = fmt.Sprintf("item-%d", r.seq)
	}
	item.CreatedAt = fakeClock
	item.UpdatedAt = fakeClock
	if item.Status == "" {
		item.Status = entity.MarketStatusAvailable
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeMarketRepo) GetByID(ctx context.Context, id string) (*entity.MarketItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	item, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Market listing not found", nil)
	}
	return item, nil
}

func (r *fakeMarketRepo) Update(ctx context.Context, item *entity.MarketItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *fakeMarketRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.items, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeMarketRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.MarketItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.MarketItem
	for _, item := range r.items {
		if v, ok := filter["category"]; ok && item.Category != v {
			continue
		}
		if v, ok := filter["status"]; ok && item.Status != v {
			continue
		}
		out = append(out, item)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMarketRepo) ListBySeller(ctx context.Context, sellerID string) ([]*entity.MarketItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.MarketItem
	for _, item := range r.items {
		if item.SellerID == sellerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeMarketRepo) WatchAll(ctx context.Context) (<-chan []*entity.MarketItem, repository.CancelFunc, error) {
	feed := make(chan []*entity.MarketItem, 8)
	var once sync.Once
	cancel := repository.CancelFunc(func() {
		once.Do(func() { close(feed) })
	})
	return feed, cancel, nil
}

type fakeImageStore struct {
	mu        sync.Mutex
	deleted   []string
	deleteErr error
}

func (s *fakeImageStore) UploadImage(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	return "https://storage.example.com/" + folder + "/uploaded.jpg", nil
}

func (s *fakeImageStore) DeleteByAssetID(ctx context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, assetID)
	return nil
}
