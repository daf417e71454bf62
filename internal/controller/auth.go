package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rinesakuci/campus-hub/internal/models"
)

// (POST /api/auth/register).
func (c *Controller) Register(ctx echo.Context) error {
	var req models.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := c.authService.Register(ctx.Request().Context(), req.FullName, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, models.RegisterResponse{ID: user.ID})
}

// (POST /api/auth/login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := c.authService.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.setRefreshCookie(ctx, result.RefreshToken)
	return ctx.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: result.AccessToken,
		User:        result.User.Public(),
	})
}

// (POST /api/auth/refresh).
func (c *Controller) Refresh(ctx echo.Context) error {
	result, err := c.authService.Refresh(ctx.Request().Context(), c.refreshCookieValue(ctx))
	if err != nil {
		return err
	}

	c.setRefreshCookie(ctx, result.RefreshToken)
	return ctx.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: result.AccessToken,
		User:        result.User.Public(),
	})
}

// (POST /api/auth/logout). Always succeeds; the cookie is cleared even when
// no session matched.
func (c *Controller) Logout(ctx echo.Context) error {
	c.authService.Logout(ctx.Request().Context(), c.refreshCookieValue(ctx))
	c.clearRefreshCookie(ctx)
	return ctx.JSON(http.StatusOK, models.OkResponse{Ok: true})
}

func (c *Controller) refreshCookieValue(ctx echo.Context) string {
	cookie, err := ctx.Cookie(models.RefreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setRefreshCookie scopes the refresh value to the refresh endpoint only.
func (c *Controller) setRefreshCookie(ctx echo.Context, value string) {
	ctx.SetCookie(&http.Cookie{
		Name:     models.RefreshCookieName,
		Value:    value,
		Path:     models.RefreshCookiePath,
		MaxAge:   int(c.authService.Tokens().RefreshTTL() / time.Second),
		HttpOnly: true,
		Secure:   !c.serverCfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Controller) clearRefreshCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     models.RefreshCookieName,
		Value:    "",
		Path:     models.RefreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !c.serverCfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
}
