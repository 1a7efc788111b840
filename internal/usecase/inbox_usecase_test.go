package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campushub/internal/domain/entity"
	ws "campushub/internal/infrastructure/websocket"
)

const eventuallyTick = 5 * time.Millisecond

func newInboxFixture(t *testing.T) (*InboxUseCase, *fakeChatRepo) {
	t.Helper()
	chatRepo := newFakeChatRepo()
	return NewInboxUseCase(chatRepo, ws.NewManager()), chatRepo
}

func seedChat(t *testing.T, repo *fakeChatRepo, buyer, owner, itemID string) *entity.Chat {
	t.Helper()
	chat := &entity.Chat{
		ID:           entity.DeriveChatID(buyer, owner, "market", itemID),
		Participants: []string{buyer, owner},
		ParticipantInfo: map[string]entity.ParticipantInfo{
			buyer: {Name: "Buyer " + buyer},
			owner: {Name: "Owner " + owner},
		},
		ItemID:      itemID,
		ItemTitle:   "Item " + itemID,
		ItemType:    "market",
		ItemOwnerID: owner,
	}
	require.NoError(t, repo.Create(context.Background(), chat))
	return chat
}

func message(chat *entity.Chat, sender, text string, at time.Time) *entity.Message {
	return &entity.Message{
		ID:        sender + "-" + at.Format("150405.000"),
		ChatID:    chat.ID,
		SenderID:  sender,
		Text:      text,
		CreatedAt: at,
	}
}

// waitForInbox polls the session until the predicate holds on the
// rendered summaries.
func waitForInbox(t *testing.T, uc *InboxUseCase, userID string, ok func([]*ChatSummary) bool) []*ChatSummary {
	t.Helper()
	var latest []*ChatSummary
	require.Eventually(t, func() bool {
		latest = uc.Summaries(userID)
		return ok(latest)
	}, 2*time.Second, eventuallyTick)
	return latest
}

func TestInboxDiscoversOwnedAndMessagedChats(t *testing.T) {
	uc, chatRepo := newInboxFixture(t)
	ctx := context.Background()

	// Bob owns one item someone wrote him about, and wrote into a chat
	// about Carol's item himself.
	asOwner := seedChat(t, chatRepo, "alice", "bob", "calc")
	asBuyer := seedChat(t, chatRepo, "bob", "carol", "cycle")
	require.NoError(t, chatRepo.CreateMessage(ctx, message(asBuyer, "bob", "still available?", fakeClock)))

	// A chat bob has nothing to do with stays out of his inbox.
	seedChat(t, chatRepo, "alice", "carol", "lamp")

	_, err := uc.Start(ctx, "bob")
	require.NoError(t, err)
	defer uc.Stop("bob")

	assert.Equal(t, 1, chatRepo.watcherCount(asOwner.ID))
	assert.Equal(t, 1, chatRepo.watcherCount(asBuyer.ID))
	assert.Equal(t, 0, chatRepo.watcherCount(entity.DeriveChatID("alice", "carol", "market", "lamp")))
}

func TestInboxDoesNotDoubleWatchOwnChatsWrittenInto(t *testing.T) {
	uc, chatRepo := newInboxFixture(t)
	ctx := context.Background()

	// Bob owns the item AND has replied in the chat, so discovery sees
	// the chat from both sides.
	chat := seedChat(t, chatRepo, "alice", "bob", "calc")
	require.NoError(t, chatRepo.CreateMessage(ctx, message(chat, "bob", "yes it is", fakeClock)))

	_, err := uc.Start(ctx, "bob")
	require.NoError(t, err)
	defer uc.Stop("bob")

	assert.Equal(t, 1, chatRepo.watcherCount(chat.ID))
}

func TestInboxCountsOnlyCounterpartMessages(t *testing.T) {
	uc, chatRepo := newInboxFixture(t)
	ctx := context.Background()

	chat := seedChat(t, chatRepo, "alice", "bob", "calc")

	_, err := uc.Start(ctx, "bob")
	require.NoError(t, err)
	defer uc.Stop("bob")

	base := fakeClock
	chatRepo.emit(chat.ID, []*entity.Message{
		message(chat, "alice", "hi", base),
		message(chat, "bob", "hello", base.Add(time.Second)),
		message(chat, "alice", "is it available?", base.Add(2*time.Second)),
	})

	summaries := waitForInbox(t, uc, "bob", func(s []*ChatSummary) bool {
		return len(s) == 1 && s[0].Unread == 2
	})

	// Bob's own reply never counts; the latest message still shows.
	assert.Equal(t, "alice", summaries[0].CounterpartID)
	assert.Equal(t, "is it available?", summaries[0].LastMessageText)
}

func TestInboxMarkReadResetsUnread(t *testing.T) {
	uc, chatRepo := newInboxFixture(t)
	ctx := context.Background()

	chat := seedChat(t, chatRepo, "alice", "bob", "calc")

	_, err := uc.Start(ctx, "bob")
	require.NoError(t, err)
	defer uc.Stop("bob")

	sentAt := fakeClock
	chatRepo.emit(chat.ID, []*entity.Message{
		message(chat, "alice", "Hello", sentAt),
	})
	waitForInbox(t, uc, "bob", func(s []*ChatSummary) bool {
		return len(s) == 1 && s[0].Unread == 1
	})

	uc.MarkReadAt("bob", chat.ID, sentAt.Add(time.Second))
	waitForInbox(t, uc, "bob", func(s []*ChatSummary) bool {
		return len(s) == 1 && s[0].Unread == 0
	})
}

func TestInboxMessagesAfterReadInstantStayUnread(t *testing.T) {
	uc, chatRepo := newInboxFixture(t)
	ctx := context.Background()

	chat := seedChat(t, chatRepo, "alice", "bob", "calc")

	_, err := uc.Start(ctx, "bob")
	require.NoError(t, err)
	defer uc.Stop("bob")

	readAt := fakeClock.Add(time.Minute)
	uc.MarkReadAt("bob", chat.ID, readAt)

	chatRepo.emit(chat.ID, []*entity.Message{
		message(chat, "alice", "old", fakeClock),
		message(chat, "alice", "new", readAt.Add(time.Second)),
	})

	waitForInbox(t, uc, "bob", func(s []*ChatSummary) bool {
		return len(s) == 1 && s[0].Unread == 1
	})

	// An earlier read instant cannot move lastRead backwards.
	uc.MarkReadAt("bob", chat.ID, fakeClock)
	time.Sleep(20 * time.Millisecond)
	summaries := uc.Summaries("bob")
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Unread)
}

func TestInboxSortsNewestConversationFirst(t *testing.T) {
	uc, chatRepo := newInboxFixture(t)
	ctx := context.Background()

	older := seedChat(t, chatRepo, "alice", "bob", "calc")
	newer := seedChat(t, chatRepo, "carol", "bob", "cycle")

	_, err := uc.Start(ctx, "bob")
	require.NoError(t, err)
	defer uc.Stop("bob")

	chatRepo.emit(older.ID, []*entity.Message{
		message(older, "alice", "first", fakeClock),
	})
	chatRepo.emit(newer.ID, []*entity.Message{
		message(newer, "carol", "second", fakeClock.Add(time.Hour)),
	})

	summaries := waitForInbox(t, uc, "bob", func(s []*ChatSummary) bool {
		return len(s) == 2 && s[0].ChatID == newer.ID
	})
	assert.Equal(t, older.ID, summaries[1].ChatID)
}

func TestInboxFallsBackToDenormalizedLastMessage(t *testing.T) {
	uc, chatRepo := newInboxFixture(t)
	ctx := context.Background()

	chat := seedChat(t, chatRepo, "alice", "bob", "calc")
	chat.LastMessage = &entity.LastMessage{
		Text:     "see you at the library",
		SenderID: "alice",
		SentAt:   fakeClock,
	}
	require.NoError(t, chatRepo.Update(ctx, chat))

	_, err := uc.Start(ctx, "bob")
	require.NoError(t, err)
	defer uc.Stop("bob")

	// An empty snapshot still renders the chat using lastMessage.
	chatRepo.emit(chat.ID, nil)

	summaries := waitForInbox(t, uc, "bob", func(s []*ChatSummary) bool {
		return len(s) == 1
	})
	assert.Equal(t, "see you at the library", summaries[0].LastMessageText)
	assert.Equal(t, fakeClock, summaries[0].LastMessageAt)
	assert.Equal(t, 0, summaries[0].Unread)
}

func TestInboxDropsChatWhenWatchDies(t *testing.T) {
	uc, chatRepo := newInboxFixture(t)
	ctx := context.Background()

	chat := seedChat(t, chatRepo, "alice", "bob", "calc")

	_, err := uc.Start(ctx, "bob")
	require.NoError(t, err)
	defer uc.Stop("bob")

	chatRepo.emit(chat.ID, []*entity.Message{
		message(chat, "alice", "hi", fakeClock),
	})
	waitForInbox(t, uc, "bob", func(s []*ChatSummary) bool {
		return len(s) == 1
	})

	chatRepo.endWatch(chat.ID)
	waitForInbox(t, uc, "bob", func(s []*ChatSummary) bool {
		return len(s) == 0
	})
}

func TestInboxStopCancelsEveryWatchOnce(t *testing.T) {
	uc, chatRepo := newInboxFixture(t)
	ctx := context.Background()

	first := seedChat(t, chatRepo, "alice", "bob", "calc")
	second := seedChat(t, chatRepo, "carol", "bob", "cycle")

	_, err := uc.Start(ctx, "bob")
	require.NoError(t, err)

	uc.Stop("bob")
	uc.Stop("bob")

	assert.Equal(t, 1, chatRepo.cancels(first.ID))
	assert.Equal(t, 1, chatRepo.cancels(second.ID))
	assert.Nil(t, uc.Summaries("bob"))

	// MarkRead after teardown is a no-op, not a panic.
	uc.MarkReadAt("bob", first.ID, time.Now())
}

func TestInboxRestartReplacesSession(t *testing.T) {
	uc, chatRepo := newInboxFixture(t)
	ctx := context.Background()

	chat := seedChat(t, chatRepo, "alice", "bob", "calc")

	_, err := uc.Start(ctx, "bob")
	require.NoError(t, err)
	_, err = uc.Start(ctx, "bob")
	require.NoError(t, err)
	defer uc.Stop("bob")

	assert.Equal(t, 1, chatRepo.cancels(chat.ID))
	assert.Equal(t, 1, chatRepo.watcherCount(chat.ID))
}
