package usecase

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	ws "campushub/internal/infrastructure/websocket"
)

// ChatSummary is one row of a user's inbox: the chat's display info,
// its latest message and how many counterpart messages the user has
// not seen yet.
type ChatSummary struct {
	ChatID            string    `json:"chat_id"`
	ItemID            string    `json:"item_id"`
	ItemTitle         string    `json:"item_title"`
	ItemType          string    `json:"item_type"`
	CounterpartID     string    `json:"counterpart_id"`
	CounterpartName   string    `json:"counterpart_name"`
	CounterpartAvatar string    `json:"counterpart_avatar,omitempty"`
	LastMessageText   string    `json:"last_message_text,omitempty"`
	LastMessageAt     time.Time `json:"last_message_at,omitempty"`
	Unread            int       `json:"unread"`
}

// InboxSession aggregates every conversation a user is involved in:
// one message watch per chat feeds a summary map, and each change
// pushes the full re-sorted inbox to the user's WebSocket connection.
//
// lastRead lives only in this session. Closing it (logout, disconnect)
// forgets what was read; the next session starts over. Unread counts
// are a per-visit convenience, not durable state.
type InboxSession struct {
	userID    string
	wsManager *ws.Manager

	mu        sync.Mutex
	chats     map[string]*entity.Chat
	snapshots map[string][]*entity.Message
	summaries map[string]*ChatSummary
	lastRead  map[string]time.Time
	watches   map[string]repository.CancelFunc
	closed    bool

	// onUpdate, when set, receives every re-render alongside the
	// WebSocket push. Tests hook it.
	onUpdate func([]*ChatSummary)
}

type InboxUseCase struct {
	chatRepo  repository.ChatRepository
	wsManager *ws.Manager

	mu       sync.Mutex
	sessions map[string]*InboxSession
}

func NewInboxUseCase(chatRepo repository.ChatRepository, wsManager *ws.Manager) *InboxUseCase {
	return &InboxUseCase{
		chatRepo:  chatRepo,
		wsManager: wsManager,
		sessions:  make(map[string]*InboxSession),
	}
}

// Start discovers the user's conversations and begins watching each
// one. A session already running for the user is torn down first.
func (uc *InboxUseCase) Start(ctx context.Context, userID string) (*InboxSession, error) {
	uc.Stop(userID)

	session := &InboxSession{
		userID:    userID,
		wsManager: uc.wsManager,
		chats:     make(map[string]*entity.Chat),
		snapshots: make(map[string][]*entity.Message),
		summaries: make(map[string]*ChatSummary),
		lastRead:  make(map[string]time.Time),
		watches:   make(map[string]repository.CancelFunc),
	}

	chats, err := uc.discoverChats(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, chat := range chats {
		if !chat.HasParticipant(userID) {
			continue
		}
		if _, watching := session.watches[chat.ID]; watching {
			continue
		}

		feed, cancel, err := uc.chatRepo.WatchMessages(ctx, chat.ID)
		if err != nil {
			// A failed watch means this chat is simply absent from the
			// inbox; the rest of the session still works.
			log.Printf("Inbox Warning: failed to watch chat %s for user %s: %v", chat.ID, userID, err)
			continue
		}

		session.chats[chat.ID] = chat
		session.watches[chat.ID] = cancel

		go session.consume(chat.ID, feed)
	}

	uc.mu.Lock()
	uc.sessions[userID] = session
	uc.mu.Unlock()

	session.render()

	return session, nil
}

// discoverChats is the one-shot conversation discovery: chats about
// items the user owns, united with chats the user has written into.
func (uc *InboxUseCase) discoverChats(ctx context.Context, userID string) ([]*entity.Chat, error) {
	owned, err := uc.chatRepo.ListByItemOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entity.Chat, len(owned))
	for _, chat := range owned {
		byID[chat.ID] = chat
	}

	sentIDs, err := uc.chatRepo.ListChatIDsBySender(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, id := range sentIDs {
		if _, ok := byID[id]; ok {
			continue
		}
		chat, err := uc.chatRepo.GetByID(ctx, id)
		if err != nil {
			log.Printf("Inbox Warning: failed to load chat %s for user %s: %v", id, userID, err)
			continue
		}
		byID[id] = chat
	}

	chats := make([]*entity.Chat, 0, len(byID))
	for _, chat := range byID {
		chats = append(chats, chat)
	}
	return chats, nil
}

// Stop tears down the user's session, if any.
func (uc *InboxUseCase) Stop(userID string) {
	uc.mu.Lock()
	session, ok := uc.sessions[userID]
	if ok {
		delete(uc.sessions, userID)
	}
	uc.mu.Unlock()

	if ok {
		session.Teardown()
	}
}

// MarkRead records that the user has seen the chat as of now.
func (uc *InboxUseCase) MarkRead(userID, chatID string) {
	uc.MarkReadAt(userID, chatID, time.Now())
}

// MarkReadAt records the read instant and re-renders the inbox. It is
// the hook chat sessions call on close.
func (uc *InboxUseCase) MarkReadAt(userID, chatID string, at time.Time) {
	uc.mu.Lock()
	session, ok := uc.sessions[userID]
	uc.mu.Unlock()

	if ok {
		session.markReadAt(chatID, at)
	}
}

// Summaries returns the current sorted inbox of the user's session, or
// nil when no session is running.
func (uc *InboxUseCase) Summaries(userID string) []*ChatSummary {
	uc.mu.Lock()
	session, ok := uc.sessions[userID]
	uc.mu.Unlock()

	if !ok {
		return nil
	}
	return session.sorted()
}

// consume folds every snapshot of one chat's messages into that chat's
// summary. The feed closing without a teardown means the watch died;
// the summary is dropped so the inbox never shows stale rows.
func (s *InboxSession) consume(chatID string, feed <-chan []*entity.Message) {
	for messages := range feed {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.snapshots[chatID] = messages
		s.summaries[chatID] = s.fold(chatID, messages)
		s.mu.Unlock()

		s.render()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	log.Printf("Inbox Warning: watch for chat %s ended, dropping from inbox of %s", chatID, s.userID)
	delete(s.summaries, chatID)
	delete(s.snapshots, chatID)
	s.mu.Unlock()

	s.render()
}

// fold computes one chat's summary from a full message snapshot.
// Callers hold s.mu.
func (s *InboxSession) fold(chatID string, messages []*entity.Message) *ChatSummary {
	chat := s.chats[chatID]
	counterpartID := chat.Counterpart(s.userID)
	info := chat.ParticipantInfo[counterpartID]

	summary := &ChatSummary{
		ChatID:            chatID,
		ItemID:            chat.ItemID,
		ItemTitle:         chat.ItemTitle,
		ItemType:          chat.ItemType,
		CounterpartID:     counterpartID,
		CounterpartName:   info.Name,
		CounterpartAvatar: info.Avatar,
	}

	readUpTo, hasRead := s.lastRead[chatID]
	for _, message := range messages {
		if message.SenderID != counterpartID {
			continue
		}
		if !hasRead || message.CreatedAt.After(readUpTo) {
			summary.Unread++
		}
	}

	if len(messages) > 0 {
		latest := messages[len(messages)-1]
		summary.LastMessageText = latest.Text
		summary.LastMessageAt = latest.CreatedAt
	} else if chat.LastMessage != nil {
		summary.LastMessageText = chat.LastMessage.Text
		summary.LastMessageAt = chat.LastMessage.SentAt
	}

	return summary
}

func (s *InboxSession) markReadAt(chatID string, at time.Time) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if current, ok := s.lastRead[chatID]; !ok || at.After(current) {
		s.lastRead[chatID] = at
	}

	// Recount against the latest snapshot; messages that arrived after
	// the read instant stay unread.
	if _, ok := s.summaries[chatID]; ok {
		s.summaries[chatID] = s.fold(chatID, s.snapshots[chatID])
	}
	s.mu.Unlock()

	s.render()
}

// render pushes the full sorted inbox, newest conversation first.
func (s *InboxSession) render() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	summaries := s.sortedLocked()
	onUpdate := s.onUpdate
	s.mu.Unlock()

	s.wsManager.SendJSONToUser(s.userID, ws.OutboundFrame{
		Type:    ws.FrameInboxUpdate,
		Payload: summaries,
	})

	if onUpdate != nil {
		onUpdate(summaries)
	}
}

func (s *InboxSession) sorted() []*ChatSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

func (s *InboxSession) sortedLocked() []*ChatSummary {
	summaries := make([]*ChatSummary, 0, len(s.summaries))
	for _, summary := range s.summaries {
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].LastMessageAt.Equal(summaries[j].LastMessageAt) {
			return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
		}
		return summaries[i].ChatID < summaries[j].ChatID
	})

	return summaries
}

// Teardown cancels every watch exactly once and marks the session
// closed, so late snapshot deliveries are dropped.
func (s *InboxSession) Teardown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	watches := s.watches
	s.watches = nil
	s.mu.Unlock()

	for _, cancel := range watches {
		cancel()
	}
}
