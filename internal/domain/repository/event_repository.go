package repository

import (
	"context"

	"campushub/internal/domain/entity"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	ListByStatus(ctx context.Context, status string) ([]*entity.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]*entity.Event, error)
	WatchApproved(ctx context.Context) (<-chan []*entity.Event, CancelFunc, error)
}
