package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rinesakuci/campus-hub/internal/models"
)

const documentPageLimit = 50

// (GET /api/comments?entityType=&entityId=).
func (c *Controller) ListComments(ctx echo.Context) error {
	entityType := models.EntityType(ctx.QueryParam("entityType"))
	if !entityType.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "entityType must be event or assignment")
	}
	entityID, err := strconv.ParseInt(ctx.QueryParam("entityId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "entityId must be numeric")
	}

	comments, err := c.docs.ListComments(ctx.Request().Context(), entityType, entityID, documentPageLimit)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, comments)
}

// (POST /api/comments). Author is taken from the verified identity, never
// from the request body.
func (c *Controller) CreateComment(ctx echo.Context) error {
	identity, err := identityFrom(ctx)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if !req.EntityType.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "entityType must be event or assignment")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	comment, err := c.docs.CreateComment(ctx.Request().Context(), models.Comment{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		UserID:     identity.ID,
		AuthorName: identity.FullName,
		Text:       req.Text,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, comment)
}

// (GET /api/notifications). Broadcasts plus the caller's own.
func (c *Controller) ListNotifications(ctx echo.Context) error {
	identity, err := identityFrom(ctx)
	if err != nil {
		return err
	}

	notifications, err := c.notify.ListForUser(ctx.Request().Context(), identity.ID, documentPageLimit)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, notifications)
}

// (POST /api/notifications). Admin only; omit userId for a broadcast.
func (c *Controller) CreateNotification(ctx echo.Context) error {
	var req models.CreateNotificationRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and message are required")
	}

	notification, err := c.notify.Create(ctx.Request().Context(), models.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, notification)
}
