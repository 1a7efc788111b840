package usecase

import (
	"context"
	"log"
	"time"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	"campushub/internal/infrastructure/ratelimit"
	"campushub/pkg/errors"
	"campushub/pkg/sanitize"
)

type AssignmentUseCase struct {
	assignmentRepo repository.AssignmentRepository
	userRepo       repository.UserRepository
	rateLimiter    *ratelimit.RateLimiter
}

func NewAssignmentUseCase(
	assignmentRepo repository.AssignmentRepository,
	userRepo repository.UserRepository,
	rateLimiter *ratelimit.RateLimiter,
) *AssignmentUseCase {
	return &AssignmentUseCase{
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		rateLimiter:    rateLimiter,
	}
}

type CreateRequestInput struct {
	Title         string    `json:"title" validate:"required,min=5,max=100"`
	Description   string    `json:"description" validate:"required,min=20,max=2000"`
	PaymentAmount float64   `json:"payment_amount" validate:"gte=0,lte=100000"`
	DueDate       time.Time `json:"due_date"`
	Tags          []string  `json:"tags" validate:"max=5,dive,max=30"`
}

func (uc *AssignmentUseCase) CreateRequest(ctx context.Context, userID string, input CreateRequestInput) (*entity.AssignmentRequest, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "create_request")
	if !allowed {
		log.Printf("CreateRequest Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("You are posting requests too quickly", waitTime)
	}

	author, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("CreateRequest Error: Author %s not found: %v", userID, err)
		return nil, err
	}

	request := &entity.AssignmentRequest{
		AuthorID:      userID,
		AuthorName:    author.DisplayName,
		Title:         sanitize.PlainText(input.Title),
		Description:   sanitize.PlainText(input.Description),
		PaymentAmount: input.PaymentAmount,
		DueDate:       input.DueDate,
		Tags:          sanitize.Tags(input.Tags),
	}

	if err := uc.assignmentRepo.Create(ctx, request); err != nil {
		log.Printf("CreateRequest Error: %v", err)
		return nil, err
	}

	return request, nil
}

func (uc *AssignmentUseCase) ListRequests(ctx context.Context) ([]*entity.AssignmentRequest, error) {
	return uc.assignmentRepo.List(ctx)
}

func (uc *AssignmentUseCase) GetRequest(ctx context.Context, id string) (*entity.AssignmentRequest, error) {
	return uc.assignmentRepo.GetByID(ctx, id)
}

func (uc *AssignmentUseCase) ListMyRequests(ctx context.Context, userID string) ([]*entity.AssignmentRequest, error) {
	return uc.assignmentRepo.ListByAuthor(ctx, userID)
}

// MarkCompleted closes a request. Only its author can do it.
func (uc *AssignmentUseCase) MarkCompleted(ctx context.Context, userID, requestID string) (*entity.AssignmentRequest, error) {
	request, err := uc.assignmentRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.AuthorID != userID {
		return nil, errors.Forbidden("Only the author can mark a request completed", nil)
	}

	if request.Completed {
		return request, nil
	}

	request.Completed = true
	if err := uc.assignmentRepo.Update(ctx, request); err != nil {
		log.Printf("MarkCompleted Error: %v", err)
		return nil, err
	}

	return request, nil
}
