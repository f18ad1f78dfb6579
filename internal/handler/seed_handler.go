package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "accounts/internal/errors"
	"accounts/internal/service"
)

// SeedHandler exposes an idempotent endpoint that loads demo users.
type SeedHandler struct {
	userService service.UserService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(userService service.UserService) *SeedHandler {
	return &SeedHandler{userService: userService}
}

type demoUser struct {
	Name     string
	Email    string
	Password string
	Role     string
}

var demoUsers = []demoUser{
	{Name: "Admin", Email: "admin@example.com", Password: "admin123", Role: "admin"},
	{Name: "Editor", Email: "editor@example.com", Password: "editor123", Role: "editor"},
	{Name: "Viewer", Email: "viewer@example.com", Password: "viewer123", Role: "viewer"},
}

// SeedUsers godoc
// @Summary Seed demo users
// @Tags seed
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/users [get]
func (h *SeedHandler) SeedUsers(c echo.Context) error {
	created, skipped := 0, 0
	for _, u := range demoUsers {
		_, err := h.userService.CreateUser(c.Request().Context(), u.Name, u.Email, u.Password, u.Role)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrDuplicateEmail):
			skipped++
		default:
			he := apperrors.MapErrorToHTTP(err)
			return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
		}
	}

	return c.JSON(http.StatusOK, map[string]int{
		"created": created,
		"skipped": skipped,
	})
}
