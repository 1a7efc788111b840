package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	"campushub/internal/infrastructure/ratelimit"
	ws "campushub/internal/infrastructure/websocket"
	"campushub/pkg/errors"
	"campushub/pkg/sanitize"
)

const (
	maxMessageLength = 500
	maxOfferAmount   = 100000
)

type ChatUseCase struct {
	chatRepo         repository.ChatRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	wsManager        *ws.Manager
	rateLimiter      *ratelimit.RateLimiter

	// One open chat session per user; opening another chat replaces it.
	sessions map[string]*ChatSession
	mu       sync.Mutex

	onSessionClose func(userID, chatID string, at time.Time)
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	wsManager *ws.Manager,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:         chatRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		wsManager:        wsManager,
		rateLimiter:      rateLimiter,
		sessions:         make(map[string]*ChatSession),
	}
}

// OnSessionClose registers the hook run when a chat session closes,
// carrying the instant the user stopped viewing the chat. The inbox
// aggregator uses it to record lastRead.
func (uc *ChatUseCase) OnSessionClose(h func(userID, chatID string, at time.Time)) {
	uc.onSessionClose = h
}

type InitiateChatInput struct {
	OwnerID   string `json:"owner_id" validate:"required"`
	ItemType  string `json:"item_type" validate:"required,oneof=market assignment lostfound"`
	ItemID    string `json:"item_id" validate:"required"`
	ItemTitle string `json:"item_title" validate:"required"`
}

// InitiateChat opens (or returns) the one chat between the caller and
// the item's owner about that item. The id is deterministic, so a
// second initiation from either side lands on the same thread.
func (uc *ChatUseCase) InitiateChat(ctx context.Context, userID string, input InitiateChatInput) (*entity.Chat, error) {
	if userID == input.OwnerID {
		log.Printf("InitiateChat Error: User %s attempted to chat about their own item", userID)
		return nil, errors.BadRequest("You cannot start a chat about your own item", nil)
	}

	chatID := entity.DeriveChatID(userID, input.OwnerID, input.ItemType, input.ItemID)

	existing, err := uc.chatRepo.GetByID(ctx, chatID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	initiator, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("InitiateChat Error: Initiator %s not found: %v", userID, err)
		return nil, err
	}

	owner, err := uc.userRepo.GetByID(ctx, input.OwnerID)
	if err != nil {
		log.Printf("InitiateChat Error: Owner %s not found: %v", input.OwnerID, err)
		return nil, errors.NotFound("Item owner not found", err)
	}

	chat := &entity.Chat{
		ID:           chatID,
		Participants: []string{userID, input.OwnerID},
		ParticipantInfo: map[string]entity.ParticipantInfo{
			userID: {
				Name:   initiator.DisplayName,
				Email:  initiator.Email,
				Avatar: initiator.Avatar(),
			},
			input.OwnerID: {
				Name:   owner.DisplayName,
				Email:  owner.Email,
				Avatar: owner.Avatar(),
			},
		},
		ItemID:      input.ItemID,
		ItemTitle:   sanitize.PlainText(input.ItemTitle),
		ItemType:    input.ItemType,
		ItemOwnerID: input.OwnerID,
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		log.Printf("InitiateChat Error: %v", err)
		return nil, err
	}

	return chat, nil
}

func (uc *ChatUseCase) GetChat(ctx context.Context, userID, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this chat", nil)
	}

	return chat, nil
}

func (uc *ChatUseCase) ListMyChats(ctx context.Context, userID string) ([]*entity.Chat, error) {
	return uc.chatRepo.ListByParticipant(ctx, userID)
}

func (uc *ChatUseCase) GetMessages(ctx context.Context, userID, chatID string) ([]*entity.Message, error) {
	if _, err := uc.GetChat(ctx, userID, chatID); err != nil {
		return nil, err
	}

	return uc.chatRepo.GetMessagesByChat(ctx, chatID)
}

// ChatSession is one user's live view of one chat. It holds exactly one
// message watch; Close cancels the watch and reports when the user
// stopped reading.
type ChatSession struct {
	ChatID string
	UserID string

	cancel    repository.CancelFunc
	closeOnce sync.Once
	onClose   func(chatID string, at time.Time)
}

// Close tears the session's watch down. Safe to call more than once.
func (s *ChatSession) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		if s.onClose != nil {
			s.onClose(s.ChatID, time.Now())
		}
	})
}

// OpenSession starts a live message feed for the chat, pushed to the
// user's WebSocket connection as chat_messages frames. Any session the
// user already has open is closed first.
func (uc *ChatUseCase) OpenSession(ctx context.Context, userID, chatID string) (*ChatSession, error) {
	if _, err := uc.GetChat(ctx, userID, chatID); err != nil {
		return nil, err
	}

	feed, cancel, err := uc.chatRepo.WatchMessages(ctx, chatID)
	if err != nil {
		log.Printf("OpenSession Error: failed to watch chat %s: %v", chatID, err)
		return nil, err
	}

	session := &ChatSession{
		ChatID: chatID,
		UserID: userID,
		cancel: cancel,
	}
	if uc.onSessionClose != nil {
		session.onClose = func(id string, at time.Time) {
			uc.onSessionClose(userID, id, at)
		}
	}

	uc.mu.Lock()
	if previous, ok := uc.sessions[userID]; ok {
		previous.Close()
	}
	uc.sessions[userID] = session
	uc.mu.Unlock()

	go func() {
		for messages := range feed {
			uc.wsManager.SendJSONToUser(userID, ws.OutboundFrame{
				Type: ws.FrameChatMessages,
				Payload: map[string]interface{}{
					"chat_id":  chatID,
					"messages": messages,
				},
			})
		}
	}()

	return session, nil
}

// CloseSession closes the user's open session if it matches the chat.
func (uc *ChatUseCase) CloseSession(userID, chatID string) {
	uc.mu.Lock()
	session, ok := uc.sessions[userID]
	if ok && session.ChatID == chatID {
		delete(uc.sessions, userID)
	} else {
		session = nil
	}
	uc.mu.Unlock()

	if session != nil {
		session.Close()
	}
}

// CloseAllSessions tears down whatever session the user still has open,
// used on disconnect and logout.
func (uc *ChatUseCase) CloseAllSessions(userID string) {
	uc.mu.Lock()
	session, ok := uc.sessions[userID]
	if ok {
		delete(uc.sessions, userID)
	}
	uc.mu.Unlock()

	if ok {
		session.Close()
	}
}

// SendMessage validates, rate limits, sanitizes and appends a message,
// then updates the chat's denormalized lastMessage and notifies the
// counterpart best-effort.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID, chatID, text string) (*entity.Message, error) {
	chat, err := uc.GetChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}
	if len(text) > maxMessageLength {
		return nil, errors.BadRequest(fmt.Sprintf("Message must be %d characters or less", maxMessageLength), nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "send_message")
	if !allowed {
		log.Printf("SendMessage Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("You are sending messages too quickly", waitTime)
	}

	message := &entity.Message{
		ChatID:   chatID,
		SenderID: userID,
		Text:     sanitize.ChatMarkup(text),
	}

	return uc.appendMessage(ctx, chat, message)
}

// SendOffer appends a price-offer message to the chat.
func (uc *ChatUseCase) SendOffer(ctx context.Context, userID, chatID string, amount float64) (*entity.Message, error) {
	chat, err := uc.GetChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if amount <= 0 || amount > maxOfferAmount {
		return nil, errors.BadRequest(fmt.Sprintf("Offer amount must be between 1 and %d", maxOfferAmount), nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "send_message")
	if !allowed {
		log.Printf("SendOffer Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("You are sending messages too quickly", waitTime)
	}

	message := &entity.Message{
		ChatID:      chatID,
		SenderID:    userID,
		Text:        fmt.Sprintf("Offered ₹%.0f", amount),
		Offer:       true,
		OfferAmount: amount,
	}

	return uc.appendMessage(ctx, chat, message)
}

func (uc *ChatUseCase) appendMessage(ctx context.Context, chat *entity.Chat, message *entity.Message) (*entity.Message, error) {
	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		log.Printf("SendMessage Error: %v", err)
		return nil, err
	}

	chat.LastMessage = &entity.LastMessage{
		Text:     message.Text,
		SenderID: message.SenderID,
		SentAt:   message.CreatedAt,
	}
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		log.Printf("SendMessage Error: failed to update last message on chat %s: %v", chat.ID, err)
		return nil, err
	}

	uc.notifyCounterpart(ctx, chat, message)

	return message, nil
}

// notifyCounterpart writes a NEW_CHAT_MESSAGE notification for the
// other participant. Failures are logged and never fail the send.
func (uc *ChatUseCase) notifyCounterpart(ctx context.Context, chat *entity.Chat, message *entity.Message) {
	recipientID := chat.Counterpart(message.SenderID)
	if recipientID == message.SenderID {
		return
	}

	senderName := chat.ParticipantInfo[message.SenderID].Name

	notification := &entity.Notification{
		RecipientID:      recipientID,
		SenderID:         message.SenderID,
		SenderName:       senderName,
		Type:             entity.NotificationChatMessage,
		Message:          message.Text,
		RelatedItemID:    chat.ItemID,
		RelatedItemTitle: chat.ItemTitle,
		ChatID:           chat.ID,
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("SendMessage Warning: failed to create notification for %s: %v", recipientID, err)
	}
}
