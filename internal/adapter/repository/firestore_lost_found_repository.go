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

type firestoreLostFoundRepository struct {
	client *firestore.Client
}

func NewFirestoreLostFoundRepository(client *firestore.Client) repository.LostFoundRepository {
	return &firestoreLostFoundRepository{
		client: client,
	}
}

func (r *firestoreLostFoundRepository) Create(ctx context.Context, item *entity.LostFoundItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = entity.LostFoundStatusOpen
	}

	_, err := r.client.Collection("lostAndFoundItems").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to create lost and found report", err)
	}

	return nil
}

func (r *firestoreLostFoundRepository) GetByID(ctx context.Context, id string) (*entity.LostFoundItem, error) {
	doc, err := r.client.Collection("lostAndFoundItems").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Lost and found report not found", nil)
		}
		return nil, errors.Internal("Failed to get lost and found report", err)
	}

	var item entity.LostFoundItem
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse lost and found data", err)
	}

	return &item, nil
}

func (r *firestoreLostFoundRepository) Update(ctx context.Context, item *entity.LostFoundItem) error {
	item.UpdatedAt = time.Now()

	_, err := r.client.Collection("lostAndFoundItems").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to update lost and found report", err)
	}

	return nil
}

func (r *firestoreLostFoundRepository) List(ctx context.Context, filter map[string]interface{}) ([]*entity.LostFoundItem, error) {
	query := r.client.Collection("lostAndFoundItems").Query

	for field, value := range filter {
		query = query.Where(field, "==", value)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching lost and found reports: %v", err)
		return nil, errors.Internal("Failed to fetch lost and found reports", err)
	}

	var items []*entity.LostFoundItem
	for _, doc := range docs {
		var item entity.LostFoundItem
		if err := doc.DataTo(&item); err != nil {
			log.Printf("Error parsing lost and found data: %v", err)
			continue
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *firestoreLostFoundRepository) ListByReporter(ctx context.Context, reporterID string) ([]*entity.LostFoundItem, error) {
	query := r.client.Collection("lostAndFoundItems").
		Where("reporterId", "==", reporterID).
		OrderBy("createdAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching reports for user %s: %v", reporterID, err)
		return nil, errors.Internal("Failed to fetch reports by reporter", err)
	}

	var items []*entity.LostFoundItem
	for _, doc := range docs {
		var item entity.LostFoundItem
		if err := doc.DataTo(&item); err != nil {
			continue
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *firestoreLostFoundRepository) WatchAll(ctx context.Context) (<-chan []*entity.LostFoundItem, repository.CancelFunc, error) {
	query := r.client.Collection("lostAndFoundItems").OrderBy("createdAt", firestore.Desc)
	return watchQuery[entity.LostFoundItem](ctx, query, "lostAndFoundItems")
}
