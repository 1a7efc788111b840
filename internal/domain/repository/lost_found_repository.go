package repository

import (
	"context"

	"campushub/internal/domain/entity"
)

type LostFoundRepository interface {
	Create(ctx context.Context, item *entity.LostFoundItem) error
	GetByID(ctx context.Context, id string) (*entity.LostFoundItem, error)
	Update(ctx context.Context, item *entity.LostFoundItem) error
	List(ctx context.Context, filter map[string]interface{}) ([]*entity.LostFoundItem, error)
	ListByReporter(ctx context.Context, reporterID string) ([]*entity.LostFoundItem, error)
	WatchAll(ctx context.Context) (<-chan []*entity.LostFoundItem, CancelFunc, error)
}
