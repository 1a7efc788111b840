package entity

import "time"

const (
	NotificationChatMessage    = "NEW_CHAT_MESSAGE"
	NotificationEventApproval  = "event_approval"
	NotificationEventRejection = "event_rejection"
)

type Notification struct {
	ID               string    `json:"id" firestore:"id"`
	RecipientID      string    `json:"recipient_id" firestore:"recipientId"`
	SenderID         string    `json:"sender_id" firestore:"senderId"`
	SenderName       string    `json:"sender_name" firestore:"senderName"`
	Type             string    `json:"type" firestore:"type"`
	Title            string    `json:"title,omitempty" firestore:"title,omitempty"`
	Message          string    `json:"message,omitempty" firestore:"message,omitempty"`
	IsRead           bool      `json:"is_read" firestore:"isRead"`
	RelatedItemID    string    `json:"related_item_id,omitempty" firestore:"relatedItemId,omitempty"`
	RelatedItemTitle string    `json:"related_item_title,omitempty" firestore:"relatedItemTitle,omitempty"`
	ChatID           string    `json:"chat_id,omitempty" firestore:"chatId,omitempty"`
	CreatedAt        time.Time `json:"created_at" firestore:"createdAt"`
}
