package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maytri315/parking-app/internal/model"
	"github.com/maytri315/parking-app/internal/repository"
)

// UserAdminHandler lets the admin inspect registered users.
type UserAdminHandler struct {
	Users *repository.UserRepo
}

func NewUserAdminHandler(users *repository.UserRepo) *UserAdminHandler {
	return &UserAdminHandler{Users: users}
}

// List returns all plain user accounts.
func (h *UserAdminHandler) List(c echo.Context) error {
	users, err := h.Users.ListByRole(c.Request().Context(), model.RoleUser)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, users)
}
