package repository

import (
	"context"

	"campushub/internal/domain/entity"
)

type AssignmentRepository interface {
	Create(ctx context.Context, request *entity.AssignmentRequest) error
	GetByID(ctx context.Context, id string) (*entity.AssignmentRequest, error)
	Update(ctx context.Context, request *entity.AssignmentRequest) error
	List(ctx context.Context) ([]*entity.AssignmentRequest, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*entity.AssignmentRequest, error)
	WatchAll(ctx context.Context) (<-chan []*entity.AssignmentRequest, CancelFunc, error)
}
