package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	"campushub/pkg/errors"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}

	notification.CreatedAt = time.Now()

	_, err := r.client.Collection("notifications").Doc(notification.ID).Set(ctx, notification)
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) ListRecent(ctx context.Context, recipientID string, limit int) ([]*entity.Notification, error) {
	query := r.client.Collection("notifications").
		Where("recipientId", "==", recipientID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching notifications for user %s: %v", recipientID, err)
		return nil, errors.Internal("Failed to fetch notifications", err)
	}

	var notifications []*entity.Notification
	for _, doc := range docs {
		var n entity.Notification
		if err := doc.DataTo(&n); err != nil {
			log.Printf("Error parsing notification data for user %s: %v", recipientID, err)
			continue
		}
		notifications = append(notifications, &n)
	}

	return notifications, nil
}

func (r *firestoreNotificationRepository) ListUnread(ctx context.Context, recipientID string) ([]*entity.Notification, error) {
	query := r.client.Collection("notifications").
		Where("recipientId", "==", recipientID).
		Where("isRead", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching unread notifications for user %s: %v", recipientID, err)
		return nil, errors.Internal("Failed to fetch unread notifications", err)
	}

	var notifications []*entity.Notification
	for _, doc := range docs {
		var n entity.Notification
		if err := doc.DataTo(&n); err != nil {
			continue
		}
		notifications = append(notifications, &n)
	}

	return notifications, nil
}

// MarkRead flips the read flag on all listed notifications in one write
// batch, so a badge never shows a partially cleared set.
func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	batch := r.client.Batch()
	for _, id := range ids {
		ref := r.client.Collection("notifications").Doc(id)
		batch.Update(ref, []firestore.Update{{Path: "isRead", Value: true}})
	}

	if _, err := batch.Commit(ctx); err != nil {
		return errors.Internal("Failed to mark notifications read", err)
	}

	return nil
}

// WatchUnreadCount streams the size of the user's unread set on every
// change.
func (r *firestoreNotificationRepository) WatchUnreadCount(ctx context.Context, recipientID string) (<-chan int, repository.CancelFunc, error) {
	watchCtx, stop := context.WithCancel(ctx)

	snaps := r.client.Collection("notifications").
		Where("recipientId", "==", recipientID).
		Where("isRead", "==", false).
		Snapshots(watchCtx)
	out := make(chan int, 1)

	go func() {
		defer close(out)
		defer snaps.Stop()

		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("WatchUnreadCount Error for user %s: %v", recipientID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Printf("WatchUnreadCount Error reading snapshot for user %s: %v", recipientID, err)
				return
			}

			select {
			case out <- len(docs):
			case <-watchCtx.Done():
				return
			}
		}
	}()

	var once sync.Once
	cancel := repository.CancelFunc(func() {
		once.Do(stop)
	})

	return out, cancel, nil
}
