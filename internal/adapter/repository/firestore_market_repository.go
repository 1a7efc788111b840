package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	"campushub/pkg/errors"
)

type firestoreMarketRepository struct {
	client *firestore.Client
}

func NewFirestoreMarketRepository(client *firestore.Client) repository.MarketRepository {
	return &firestoreMarketRepository{
		client: client,
	}
}

func (r *firestoreMarketRepository) Create(ctx context.Context, item *entity.MarketItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = entity.MarketStatusAvailable
	}

	_, err := r.client.Collection("marketListings").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to create market listing", err)
	}

	return nil
}

func (r *firestoreMarketRepository) GetByID(ctx context.Context, id string) (*entity.MarketItem, error) {
	doc, err := r.client.Collection("marketListings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Market listing not found", nil)
		}
		return nil, errors.Internal("Failed to get market listing", err)
	}

	var item entity.MarketItem
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse market listing data", err)
	}

	return &item, nil
}

func (r *firestoreMarketRepository) Update(ctx context.Context, item *entity.MarketItem) error {
	item.UpdatedAt = time.Now()

	_, err := r.client.Collection("marketListings").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to update market listing", err)
	}

	return nil
}

func (r *firestoreMarketRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("marketListings").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete market listing", err)
	}

	return nil
}

func (r *firestoreMarketRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.MarketItem, int64, error) {
	query := r.client.Collection("marketListings").Query

	for field, value := range filter {
		query = query.Where(field, "==", value)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching market listings: %v", err)
		return nil, 0, errors.Internal("Failed to fetch market listings", err)
	}

	total := int64(len(allDocs))

	start := offset
	end := len(allDocs)
	if limit > 0 {
		end = start + limit
		if end > len(allDocs) {
			end = len(allDocs)
		}
	}
	if start > len(allDocs) {
		start = len(allDocs)
	}

	var items []*entity.MarketItem
	for i := start; i < end; i++ {
		var item entity.MarketItem
		if err := allDocs[i].DataTo(&item); err != nil {
			log.Printf("Error parsing market listing data: %v", err)
			continue
		}
		items = append(items, &item)
	}

	return items, total, nil
}

func (r *firestoreMarketRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.MarketItem, error) {
	query := r.client.Collection("marketListings").
		Where("sellerId", "==", sellerID).
		OrderBy("createdAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching listings for seller %s: %v", sellerID, err)
		return nil, errors.Internal("Failed to fetch listings by seller", err)
	}

	var items []*entity.MarketItem
	for _, doc := range docs {
		var item entity.MarketItem
		if err := doc.DataTo(&item); err != nil {
			continue
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *firestoreMarketRepository) WatchAll(ctx context.Context) (<-chan []*entity.MarketItem, repository.CancelFunc, error) {
	query := r.client.Collection("marketListings").OrderBy("createdAt", firestore.Desc)
	return watchQuery[entity.MarketItem](ctx, query, "marketListings")
}
