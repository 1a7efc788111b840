package usecase

import (
	"context"
	"log"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	"campushub/internal/infrastructure/ratelimit"
	"campushub/pkg/errors"
	"campushub/pkg/sanitize"
)

type LostFoundUseCase struct {
	lostFoundRepo repository.LostFoundRepository
	userRepo      repository.UserRepository
	rateLimiter   *ratelimit.RateLimiter
}

func NewLostFoundUseCase(
	lostFoundRepo repository.LostFoundRepository,
	userRepo repository.UserRepository,
	rateLimiter *ratelimit.RateLimiter,
) *LostFoundUseCase {
	return &LostFoundUseCase{
		lostFoundRepo: lostFoundRepo,
		userRepo:      userRepo,
		rateLimiter:   rateLimiter,
	}
}

type ReportItemInput struct {
	Type        string `json:"type" validate:"required,oneof=lost found"`
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=10,max=1000"`
	Location    string `json:"location" validate:"required,max=200"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

func (uc *LostFoundUseCase) ReportItem(ctx context.Context, userID string, input ReportItemInput) (*entity.LostFoundItem, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "report_item")
	if !allowed {
		log.Printf("ReportItem Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("You are filing reports too quickly", waitTime)
	}

	reporter, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("ReportItem Error: Reporter %s not found: %v", userID, err)
		return nil, err
	}

	item := &entity.LostFoundItem{
		ReporterID:   userID,
		ReporterName: reporter.DisplayName,
		Type:         input.Type,
		Title:        sanitize.PlainText(input.Title),
		Description:  sanitize.PlainText(input.Description),
		Location:     sanitize.PlainText(input.Location),
		ImageURL:     input.ImageURL,
		Status:       entity.LostFoundStatusOpen,
	}

	if err := uc.lostFoundRepo.Create(ctx, item); err != nil {
		log.Printf("ReportItem Error: %v", err)
		return nil, err
	}

	return item, nil
}

type ListReportsInput struct {
	Type   string
	Status string
}

func (uc *LostFoundUseCase) ListReports(ctx context.Context, input ListReportsInput) ([]*entity.LostFoundItem, error) {
	filter := make(map[string]interface{})
	if input.Type != "" {
		filter["type"] = input.Type
	}
	if input.Status != "" {
		filter["status"] = input.Status
	}

	return uc.lostFoundRepo.List(ctx, filter)
}

func (uc *LostFoundUseCase) GetReport(ctx context.Context, id string) (*entity.LostFoundItem, error) {
	return uc.lostFoundRepo.GetByID(ctx, id)
}

func (uc *LostFoundUseCase) ListMyReports(ctx context.Context, userID string) ([]*entity.LostFoundItem, error) {
	return uc.lostFoundRepo.ListByReporter(ctx, userID)
}

// Resolve closes a report. Only the reporter can do it.
func (uc *LostFoundUseCase) Resolve(ctx context.Context, userID, itemID string) (*entity.LostFoundItem, error) {
	item, err := uc.lostFoundRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.ReporterID != userID {
		return nil, errors.Forbidden("Only the reporter can resolve this report", nil)
	}

	if item.Status == entity.LostFoundStatusResolved {
		return item, nil
	}

	item.Status = entity.LostFoundStatusResolved
	if err := uc.lostFoundRepo.Update(ctx, item); err != nil {
		log.Printf("Resolve Error: %v", err)
		return nil, err
	}

	return item, nil
}
