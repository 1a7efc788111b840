package entity

import "time"

const (
	MarketStatusAvailable = "available"
	MarketStatusSold      = "sold"
)

type MarketItem struct {
	ID          string    `json:"id" firestore:"id"`
	SellerID    string    `json:"seller_id" firestore:"sellerId"`
	SellerName  string    `json:"seller_name" firestore:"sellerName"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description" firestore:"description"`
	Category    string    `json:"category" firestore:"category"` // "books", "electronics", "cycle", "other"
	Price       float64   `json:"price" firestore:"price"`
	ImageURL    string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	Status      string    `json:"status" firestore:"status"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (m *MarketItem) IsSold() bool {
	return m.Status == MarketStatusSold
}
