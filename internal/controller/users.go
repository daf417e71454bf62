package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rinesakuci/campus-hub/internal/models"
)

// (GET /api/users?q=). Admin only; q filters name/email.
func (c *Controller) ListUsers(ctx echo.Context) error {
	users, err := c.storage.ListUsers(ctx.Request().Context(), ctx.QueryParam("q"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, users)
}

// (POST /api/users). Admin only; same validation path as self-registration.
func (c *Controller) CreateUser(ctx echo.Context) error {
	var req models.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := c.authService.Register(ctx.Request().Context(), req.FullName, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, user.Public())
}

// (PUT /api/users/:id).
func (c *Controller) UpdateUser(ctx echo.Context) error {
	id, err := userIDParam(ctx)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Role != nil && !req.Role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	user, err := c.storage.UpdateUser(ctx.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, user.Public())
}

// (PATCH /api/users/:id/password).
func (c *Controller) UpdateUserPassword(ctx echo.Context) error {
	id, err := userIDParam(ctx)
	if err != nil {
		return err
	}

	var req models.UpdatePasswordRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Password) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}

	hash, err := c.authService.HashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := c.storage.UpdateUserPassword(ctx.Request().Context(), id, hash); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.OkResponse{Ok: true})
}

// (DELETE /api/users/:id). Revokes every refresh session the user holds.
func (c *Controller) DeleteUser(ctx echo.Context) error {
	id, err := userIDParam(ctx)
	if err != nil {
		return err
	}

	if err := c.authService.DeleteUser(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.OkResponse{Ok: true})
}

func userIDParam(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be numeric")
	}
	return id, nil
}
