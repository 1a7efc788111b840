package handler

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/usecase"
	"campushub/pkg/response"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

// OpenPanel returns recent notifications and clears their unread flag
// in one atomic batch
func (h *NotificationHandler) OpenPanel(c echo.Context) error {
	userID := c.Get("uid").(string)

	notifications, err := h.notificationUseCase.OpenPanel(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, notifications)
}

// MarkAllRead clears every unread notification the caller has
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.notificationUseCase.MarkAllRead(c.Request().Context(), userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"marked": true})
}
