package repository

import (
	"context"

	"campushub/internal/domain/entity"
)

type MarketRepository interface {
	Create(ctx context.Context, item *entity.MarketItem) error
	GetByID(ctx context.Context, id string) (*entity.MarketItem, error)
	Update(ctx context.Context, item *entity.MarketItem) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.MarketItem, int64, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*entity.MarketItem, error)
	WatchAll(ctx context.Context) (<-chan []*entity.MarketItem, CancelFunc, error)
}
