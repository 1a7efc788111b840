package handler

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/usecase"
	"campushub/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

// SyncProfile upserts the caller's user document from the verified
// token claims set by the auth middleware
func (h *UserHandler) SyncProfile(c echo.Context) error {
	userID := c.Get("uid").(string)

	input := usecase.SyncProfileInput{}
	if claims, ok := c.Get("claims").(map[string]interface{}); ok {
		if v, ok := claims["email"].(string); ok {
			input.Email = v
		}
		if v, ok := claims["name"].(string); ok {
			input.DisplayName = v
		}
		if v, ok := claims["picture"].(string); ok {
			input.PhotoURL = v
		}
	}

	user, err := h.userUseCase.SyncProfile(c.Request().Context(), userID, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// GetProfile returns the caller's user document
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// GetMyActivity returns everything the caller has posted
func (h *UserHandler) GetMyActivity(c echo.Context) error {
	userID := c.Get("uid").(string)

	activity, err := h.userUseCase.GetMyActivity(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, activity)
}
