package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campushub/internal/domain/repository"
)

// ModeratorMiddleware gates routes to users whose stored role is
// moderator. Runs after Authenticate.
type ModeratorMiddleware struct {
	userRepo repository.UserRepository
}

func NewModeratorMiddleware(userRepo repository.UserRepository) *ModeratorMiddleware {
	return &ModeratorMiddleware{
		userRepo: userRepo,
	}
}

func (m *ModeratorMiddleware) ModeratorOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok || uid == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "Moderator access required")
		}

		if !user.IsModerator() {
			return echo.NewHTTPError(http.StatusForbidden, "Moderator access required")
		}

		return next(c)
	}
}
