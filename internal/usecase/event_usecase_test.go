package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	"campushub/pkg/errors"
)

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*entity.Event
	seq    int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*entity.Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if event.ID == "" {
		event.ID = fmt.Sprintf("event-%d", r.seq)
	}
	event.CreatedAt = fakeClock
	event.UpdatedAt = fakeClock
	if event.Status == "" {
		event.Status = entity.EventStatusPending
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, errors.NotFound("Event not found", nil)
	}
	return event, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Event
	for _, event := range r.events {
		if event.Status == status {
			out = append(out, event)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Event
	for _, event := range r.events {
		if event.OrganizerID == organizerID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) WatchApproved(ctx context.Context) (<-chan []*entity.Event, repository.CancelFunc, error) {
	feed := make(chan []*entity.Event, 8)
	var once sync.Once
	cancel := repository.CancelFunc(func() {
		once.Do(func() { close(feed) })
	})
	return feed, cancel, nil
}

type eventFixture struct {
	uc        *EventUseCase
	eventRepo *fakeEventRepo
	notifRepo *fakeNotificationRepo
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()

	eventRepo := newFakeEventRepo()
	userRepo := newFakeUserRepo(
		&entity.User{ID: "bob", Email: "bob@campus.edu", DisplayName: "Bob", Role: "student"},
		&entity.User{ID: "mod", Email: "mod@campus.edu", DisplayName: "Mod", Role: "moderator"},
	)
	notifRepo := newFakeNotificationRepo()

	return &eventFixture{
		uc:        NewEventUseCase(eventRepo, userRepo, notifRepo),
		eventRepo: eventRepo,
		notifRepo: notifRepo,
	}
}

func validEventInput() SubmitEventInput {
	return SubmitEventInput{
		Title:       "Valorant Tournament",
		Description: "Inter-hostel 5v5 bracket, bring your own peripherals.",
		Venue:       "Computer Centre Lab 2",
		Category:    "esports",
		StartsAt:    time.Now().Add(72 * time.Hour),
	}
}

func TestSubmitEventStartsPending(t *testing.T) {
	f := newEventFixture(t)

	event, err := f.uc.SubmitEvent(context.Background(), "bob", validEventInput())
	require.NoError(t, err)

	assert.Equal(t, entity.EventStatusPending, event.Status)
	assert.Equal(t, "Bob", event.OrganizerName)

	// Pending submissions never show on the public list.
	approved, err := f.uc.ListApproved(context.Background())
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestSubmitEventRejectsPastStart(t *testing.T) {
	f := newEventFixture(t)

	input := validEventInput()
	input.StartsAt = time.Now().Add(-time.Hour)

	_, err := f.uc.SubmitEvent(context.Background(), "bob", input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestListPendingRequiresModerator(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	_, err := f.uc.SubmitEvent(ctx, "bob", validEventInput())
	require.NoError(t, err)

	_, err = f.uc.ListPending(ctx, "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	pending, err := f.uc.ListPending(ctx, "mod")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestModerateEventApproval(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	event, err := f.uc.SubmitEvent(ctx, "bob", validEventInput())
	require.NoError(t, err)

	moderated, err := f.uc.ModerateEvent(ctx, "mod", event.ID, ModerateEventInput{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, entity.EventStatusApproved, moderated.Status)

	approved, err := f.uc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	notifications := f.notifRepo.byRecipient("bob")
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationEventApproval, notifications[0].Type)
	assert.Equal(t, `Your event "Valorant Tournament" was approved`, notifications[0].Title)
}

func TestModerateEventRejectionCarriesNote(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	event, err := f.uc.SubmitEvent(ctx, "bob", validEventInput())
	require.NoError(t, err)

	moderated, err := f.uc.ModerateEvent(ctx, "mod", event.ID, ModerateEventInput{
		Approve: false,
		Note:    "<b>Venue</b> already booked that evening",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.EventStatusRejected, moderated.Status)
	assert.Equal(t, "Venue already booked that evening", moderated.ModerationNote)

	notifications := f.notifRepo.byRecipient("bob")
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationEventRejection, notifications[0].Type)
	assert.Equal(t, moderated.ModerationNote, notifications[0].Message)
}

func TestModerateEventOnlyOnce(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	event, err := f.uc.SubmitEvent(ctx, "bob", validEventInput())
	require.NoError(t, err)

	_, err = f.uc.ModerateEvent(ctx, "mod", event.ID, ModerateEventInput{Approve: true})
	require.NoError(t, err)

	_, err = f.uc.ModerateEvent(ctx, "mod", event.ID, ModerateEventInput{Approve: false})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestModerateEventRequiresModerator(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	event, err := f.uc.SubmitEvent(ctx, "bob", validEventInput())
	require.NoError(t, err)

	_, err = f.uc.ModerateEvent(ctx, "bob", event.ID, ModerateEventInput{Approve: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	assert.Empty(t, f.notifRepo.byRecipient("bob"))
}
