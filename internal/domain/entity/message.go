package entity

import "time"

type Message struct {
	ID       string `json:"id" firestore:"id"`
	ChatID   string `json:"chat_id" firestore:"chatId"`
	SenderID string `json:"sender_id" firestore:"senderId"`
	Text     string `json:"text" firestore:"text"`

	// Offer marks a price-negotiation message; OfferAmount is only
	// meaningful when Offer is set.
	Offer       bool    `json:"offer,omitempty" firestore:"offer,omitempty"`
	OfferAmount float64 `json:"offer_amount,omitempty" firestore:"offerAmount,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
