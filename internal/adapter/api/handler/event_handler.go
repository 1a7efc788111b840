package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"campushub/internal/usecase"
	"campushub/pkg/response"
)

type EventHandler struct {
	eventUseCase *usecase.EventUseCase
}

func NewEventHandler(eventUseCase *usecase.EventUseCase) *EventHandler {
	return &EventHandler{
		eventUseCase: eventUseCase,
	}
}

type submitEventRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=100"`
	Description string    `json:"description" validate:"required,min=10,max=2000"`
	Venue       string    `json:"venue" validate:"required,max=200"`
	Category    string    `json:"category" validate:"omitempty,oneof=esports cultural workshop other"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
}

type moderateEventRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" validate:"max=500"`
}

// SubmitEvent files an event proposal for moderation
func (h *EventHandler) SubmitEvent(c echo.Context) error {
	var req submitEventRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	event, err := h.eventUseCase.SubmitEvent(c.Request().Context(), userID, usecase.SubmitEventInput{
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		Category:    req.Category,
		StartsAt:    req.StartsAt,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, event)
}

// ListApproved lists publicly visible events
func (h *EventHandler) ListApproved(c echo.Context) error {
	events, err := h.eventUseCase.ListApproved(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, events)
}

// GetMyEvents lists the caller's submissions
func (h *EventHandler) GetMyEvents(c echo.Context) error {
	userID := c.Get("uid").(string)

	events, err := h.eventUseCase.ListMyEvents(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, events)
}

// ListPending lists proposals awaiting moderation
func (h *EventHandler) ListPending(c echo.Context) error {
	userID := c.Get("uid").(string)

	events, err := h.eventUseCase.ListPending(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, events)
}

// ModerateEvent approves or rejects a proposal
func (h *EventHandler) ModerateEvent(c echo.Context) error {
	var req moderateEventRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	event, err := h.eventUseCase.ModerateEvent(c.Request().Context(), userID, c.Param("id"), usecase.ModerateEventInput{
		Approve: req.Approve,
		Note:    req.Note,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, event)
}
