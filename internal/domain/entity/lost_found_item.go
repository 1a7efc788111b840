package entity

import "time"

const (
	LostFoundTypeLost  = "lost"
	LostFoundTypeFound = "found"

	LostFoundStatusOpen     = "open"
	LostFoundStatusResolved = "resolved"
)

type LostFoundItem struct {
	ID           string    `json:"id" firestore:"id"`
	ReporterID   string    `json:"reporter_id" firestore:"reporterId"`
	ReporterName string    `json:"reporter_name" firestore:"reporterName"`
	Type         string    `json:"type" firestore:"type"`
	Title        string    `json:"title" firestore:"title"`
	Description  string    `json:"description" firestore:"description"`
	Location     string    `json:"location" firestore:"location"`
	ImageURL     string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	Status       string    `json:"status" firestore:"status"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}
