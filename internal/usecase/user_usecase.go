package usecase

import (
	"context"
	"log"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
)

type UserUseCase struct {
	userRepo       repository.UserRepository
	marketRepo     repository.MarketRepository
	assignmentRepo repository.AssignmentRepository
	lostFoundRepo  repository.LostFoundRepository
	eventRepo      repository.EventRepository
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	marketRepo repository.MarketRepository,
	assignmentRepo repository.AssignmentRepository,
	lostFoundRepo repository.LostFoundRepository,
	eventRepo repository.EventRepository,
) *UserUseCase {
	return &UserUseCase{
		userRepo:       userRepo,
		marketRepo:     marketRepo,
		assignmentRepo: assignmentRepo,
		lostFoundRepo:  lostFoundRepo,
		eventRepo:      eventRepo,
	}
}

type SyncProfileInput struct {
	Email       string
	DisplayName string
	PhotoURL    string
}

// SyncProfile upserts the user document on login so chats and listings
// always have current display info to denormalize from.
func (uc *UserUseCase) SyncProfile(ctx context.Context, userID string, input SyncProfileInput) (*entity.User, error) {
	user := &entity.User{
		ID:          userID,
		Email:       input.Email,
		DisplayName: input.DisplayName,
		PhotoURL:    input.PhotoURL,
	}

	if err := uc.userRepo.Upsert(ctx, user); err != nil {
		log.Printf("SyncProfile Error: %v", err)
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// MyActivity is everything a user has posted across the portal,
// fetched with one-shot queries per collection.
type MyActivity struct {
	Listings []*entity.MarketItem        `json:"listings"`
	Requests []*entity.AssignmentRequest `json:"requests"`
	Reports  []*entity.LostFoundItem     `json:"reports"`
	Events   []*entity.Event             `json:"events"`
}

func (uc *UserUseCase) GetMyActivity(ctx context.Context, userID string) (*MyActivity, error) {
	activity := &MyActivity{}

	listings, err := uc.marketRepo.ListBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	activity.Listings = listings

	requests, err := uc.assignmentRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	activity.Requests = requests

	reports, err := uc.lostFoundRepo.ListByReporter(ctx, userID)
	if err != nil {
		return nil, err
	}
	activity.Reports = reports

	events, err := uc.eventRepo.ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, err
	}
	activity.Events = events

	return activity, nil
}
