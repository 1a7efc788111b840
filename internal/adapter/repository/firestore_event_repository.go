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

type firestoreEventRepository struct {
	client *firestore.Client
}

func NewFirestoreEventRepository(client *firestore.Client) repository.EventRepository {
	return &firestoreEventRepository{
		client: client,
	}
}

func (r *firestoreEventRepository) Create(ctx context.Context, event *entity.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Status == "" {
		event.Status = entity.EventStatusPending
	}

	_, err := r.client.Collection("events").Doc(event.ID).Set(ctx, event)
	if err != nil {
		return errors.Internal("Failed to create event", err)
	}

	return nil
}

func (r *firestoreEventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	doc, err := r.client.Collection("events").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Event not found", nil)
		}
		return nil, errors.Internal("Failed to get event", err)
	}

	var event entity.Event
	if err := doc.DataTo(&event); err != nil {
		return nil, errors.Internal("Failed to parse event data", err)
	}

	return &event, nil
}

func (r *firestoreEventRepository) Update(ctx context.Context, event *entity.Event) error {
	event.UpdatedAt = time.Now()

	_, err := r.client.Collection("events").Doc(event.ID).Set(ctx, event)
	if err != nil {
		return errors.Internal("Failed to update event", err)
	}

	return nil
}

func (r *firestoreEventRepository) ListByStatus(ctx context.Context, eventStatus string) ([]*entity.Event, error) {
	query := r.client.Collection("events").
		Where("status", "==", eventStatus).
		OrderBy("startsAt", firestore.Asc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching %s events: %v", eventStatus, err)
		return nil, errors.Internal("Failed to fetch events", err)
	}

	var events []*entity.Event
	for _, doc := range docs {
		var event entity.Event
		if err := doc.DataTo(&event); err != nil {
			log.Printf("Error parsing event data: %v", err)
			continue
		}
		events = append(events, &event)
	}

	return events, nil
}

func (r *firestoreEventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*entity.Event, error) {
	query := r.client.Collection("events").
		Where("organizerId", "==", organizerID).
		OrderBy("createdAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching events for organizer %s: %v", organizerID, err)
		return nil, errors.Internal("Failed to fetch events by organizer", err)
	}

	var events []*entity.Event
	for _, doc := range docs {
		var event entity.Event
		if err := doc.DataTo(&event); err != nil {
			continue
		}
		events = append(events, &event)
	}

	return events, nil
}

func (r *firestoreEventRepository) WatchApproved(ctx context.Context) (<-chan []*entity.Event, repository.CancelFunc, error) {
	query := r.client.Collection("events").
		Where("status", "==", entity.EventStatusApproved).
		OrderBy("startsAt", firestore.Asc)
	return watchQuery[entity.Event](ctx, query, "events")
}
