package entity

import (
	"sort"
	"strings"
	"time"
)

// ParticipantInfo is the display info denormalized onto a chat so list
// views never have to join against the users collection.
type ParticipantInfo struct {
	Name   string `json:"name" firestore:"name"`
	Email  string `json:"email,omitempty" firestore:"email,omitempty"`
	Avatar string `json:"avatar,omitempty" firestore:"avatar,omitempty"`
}

// LastMessage is the denormalized copy of the most recent message kept
// on the parent chat document.
type LastMessage struct {
	Text     string    `json:"text" firestore:"text"`
	SenderID string    `json:"sender_id" firestore:"senderId"`
	SentAt   time.Time `json:"sent_at" firestore:"sentAt"`
}

type Chat struct {
	ID              string                     `json:"id" firestore:"id"`
	Participants    []string                   `json:"participants" firestore:"participants"`
	ParticipantInfo map[string]ParticipantInfo `json:"participant_info" firestore:"participantInfo"`
	ItemID          string                     `json:"item_id" firestore:"itemId"`
	ItemTitle       string                     `json:"item_title" firestore:"itemTitle"`
	ItemType        string                     `json:"item_type" firestore:"itemType"` // "market", "assignment", "lostfound"
	ItemOwnerID     string                     `json:"item_owner_id" firestore:"itemOwnerId"`
	LastMessage     *LastMessage               `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	CreatedAt       time.Time                  `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time                  `json:"updated_at" firestore:"updatedAt"`
}

// DeriveChatID builds the deterministic chat document id for a pair of
// users and one item: sorted participant ids, then item type, then item
// id, joined with underscores. Symmetric in the participants, so either
// side initiating resolves to the same thread.
func DeriveChatID(userA, userB, itemType, itemID string) string {
	uids := []string{userA, userB}
	sort.Strings(uids)
	return strings.Join([]string{uids[0], uids[1], itemType, itemID}, "_")
}

// Counterpart returns the other participant's id, or the user's own id
// for a self-chat.
func (c *Chat) Counterpart(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return userID
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
