package entity

import "time"

const (
	EventStatusPending  = "pending"
	EventStatusApproved = "approved"
	EventStatusRejected = "rejected"
)

type Event struct {
	ID             string    `json:"id" firestore:"id"`
	OrganizerID    string    `json:"organizer_id" firestore:"organizerId"`
	OrganizerName  string    `json:"organizer_name" firestore:"organizerName"`
	Title          string    `json:"title" firestore:"title"`
	Description    string    `json:"description" firestore:"description"`
	Venue          string    `json:"venue" firestore:"venue"`
	Category       string    `json:"category,omitempty" firestore:"category,omitempty"` // "esports", "cultural", "workshop", "other"
	StartsAt       time.Time `json:"starts_at" firestore:"startsAt"`
	Status         string    `json:"status" firestore:"status"`
	ModerationNote string    `json:"moderation_note,omitempty" firestore:"moderationNote,omitempty"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updated_at" firestore:"updatedAt"`
}
