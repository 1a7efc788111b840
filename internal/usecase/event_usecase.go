package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	"campushub/pkg/errors"
	"campushub/pkg/sanitize"
)

type EventUseCase struct {
	eventRepo        repository.EventRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

func NewEventUseCase(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) *EventUseCase {
	return &EventUseCase{
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

type SubmitEventInput struct {
	Title       string    `json:"title" validate:"required,min=3,max=100"`
	Description string    `json:"description" validate:"required,min=10,max=2000"`
	Venue       string    `json:"venue" validate:"required,max=200"`
	Category    string    `json:"category" validate:"omitempty,oneof=esports cultural workshop other"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
}

// SubmitEvent files an event proposal. Every submission starts pending
// and only shows publicly once a moderator approves it.
func (uc *EventUseCase) SubmitEvent(ctx context.Context, userID string, input SubmitEventInput) (*entity.Event, error) {
	if input.StartsAt.Before(time.Now()) {
		return nil, errors.BadRequest("Event start time must be in the future", nil)
	}

	organizer, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("SubmitEvent Error: Organizer %s not found: %v", userID, err)
		return nil, err
	}

	event := &entity.Event{
		OrganizerID:   userID,
		OrganizerName: organizer.DisplayName,
		Title:         sanitize.PlainText(input.Title),
		Description:   sanitize.PlainText(input.Description),
		Venue:         sanitize.PlainText(input.Venue),
		Category:      input.Category,
		StartsAt:      input.StartsAt,
		Status:        entity.EventStatusPending,
	}

	if err := uc.eventRepo.Create(ctx, event); err != nil {
		log.Printf("SubmitEvent Error: %v", err)
		return nil, err
	}

	return event, nil
}

func (uc *EventUseCase) ListApproved(ctx context.Context) ([]*entity.Event, error) {
	return uc.eventRepo.ListByStatus(ctx, entity.EventStatusApproved)
}

func (uc *EventUseCase) ListPending(ctx context.Context, userID string) ([]*entity.Event, error) {
	if err := uc.requireModerator(ctx, userID); err != nil {
		return nil, err
	}
	return uc.eventRepo.ListByStatus(ctx, entity.EventStatusPending)
}

func (uc *EventUseCase) ListMyEvents(ctx context.Context, userID string) ([]*entity.Event, error) {
	return uc.eventRepo.ListByOrganizer(ctx, userID)
}

type ModerateEventInput struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" validate:"max=500"`
}

// ModerateEvent approves or rejects a pending event and notifies its
// organizer of the decision.
func (uc *EventUseCase) ModerateEvent(ctx context.Context, moderatorID, eventID string, input ModerateEventInput) (*entity.Event, error) {
	if err := uc.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}

	event, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.Status != entity.EventStatusPending {
		return nil, errors.BadRequest("Event has already been moderated", nil)
	}

	notificationType := entity.NotificationEventApproval
	title := fmt.Sprintf("Your event %q was approved", event.Title)
	if input.Approve {
		event.Status = entity.EventStatusApproved
	} else {
		event.Status = entity.EventStatusRejected
		notificationType = entity.NotificationEventRejection
		title = fmt.Sprintf("Your event %q was rejected", event.Title)
	}
	event.ModerationNote = sanitize.PlainText(input.Note)

	if err := uc.eventRepo.Update(ctx, event); err != nil {
		log.Printf("ModerateEvent Error: %v", err)
		return nil, err
	}

	notification := &entity.Notification{
		RecipientID:      event.OrganizerID,
		SenderID:         moderatorID,
		Type:             notificationType,
		Title:            title,
		Message:          event.ModerationNote,
		RelatedItemID:    event.ID,
		RelatedItemTitle: event.Title,
	}
	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("ModerateEvent Warning: failed to notify organizer %s: %v", event.OrganizerID, err)
	}

	return event, nil
}

func (uc *EventUseCase) requireModerator(ctx context.Context, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsModerator() {
		return errors.Forbidden("Moderator access required", nil)
	}
	return nil
}
