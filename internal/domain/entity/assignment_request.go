package entity

import "time"

type AssignmentRequest struct {
	ID            string    `json:"id" firestore:"id"`
	AuthorID      string    `json:"author_id" firestore:"authorId"`
	AuthorName    string    `json:"author_name" firestore:"authorName"`
	Title         string    `json:"title" firestore:"title"`
	Description   string    `json:"description" firestore:"description"`
	PaymentAmount float64   `json:"payment_amount" firestore:"paymentAmount"`
	DueDate       time.Time `json:"due_date,omitempty" firestore:"dueDate,omitempty"`
	Tags          []string  `json:"tags,omitempty" firestore:"tags,omitempty"`
	Completed     bool      `json:"completed" firestore:"completed"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}
