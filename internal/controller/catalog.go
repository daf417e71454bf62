package controller

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rinesakuci/campus-hub/internal/models"
)

// (GET /api/courses). Served from the redis cache when warm.
func (c *Controller) ListCourses(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if c.courseCache != nil {
		courses, hit, err := c.courseCache.GetCourses(reqCtx)
		if err != nil {
			c.zapLogger.Warnw("course cache read failed", "error", err)
		} else if hit {
			return ctx.JSON(http.StatusOK, courses)
		}
	}

	courses, err := c.storage.ListCourses(reqCtx)
	if err != nil {
		return err
	}

	if c.courseCache != nil {
		if err := c.courseCache.SetCourses(reqCtx, courses); err != nil {
			c.zapLogger.Warnw("course cache write failed", "error", err)
		}
	}

	return ctx.JSON(http.StatusOK, courses)
}

// (POST /api/courses). Admin only.
func (c *Controller) CreateCourse(ctx echo.Context) error {
	var req models.CreateCourseRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and code are required")
	}

	course, err := c.storage.CreateCourse(ctx.Request().Context(), models.Course{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	if c.courseCache != nil {
		if err := c.courseCache.Invalidate(ctx.Request().Context()); err != nil {
			c.zapLogger.Warnw("course cache invalidation failed", "error", err)
		}
	}

	return ctx.JSON(http.StatusOK, course)
}

// (GET /api/events?courseId=).
func (c *Controller) ListEvents(ctx echo.Context) error {
	var courseID *int64
	if raw := ctx.QueryParam("courseId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "courseId must be numeric")
		}
		courseID = &id
	}

	events, err := c.storage.ListEvents(ctx.Request().Context(), courseID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, events)
}

// (POST /api/events). Admin only; fans out a broadcast notification.
func (c *Controller) CreateEvent(ctx echo.Context) error {
	var req models.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" || req.Date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and date are required")
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be RFC 3339")
	}
	if req.CourseID != nil {
		if _, err := c.storage.GetCourseByID(ctx.Request().Context(), *req.CourseID); err != nil {
			return err
		}
	}

	event, err := c.storage.CreateEvent(ctx.Request().Context(), models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		CourseID:    req.CourseID,
	})
	if err != nil {
		return err
	}

	c.notify.BroadcastEventCreated(event)

	return ctx.JSON(http.StatusOK, event)
}

// (GET /api/assignments).
func (c *Controller) ListAssignments(ctx echo.Context) error {
	assignments, err := c.storage.ListAssignments(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assignments)
}

// (GET /api/assignments/:id).
func (c *Controller) GetAssignment(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be numeric")
	}

	assignment, err := c.storage.GetAssignmentByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assignment)
}

// (GET /api/assignments/by-course/:courseId).
func (c *Controller) ListAssignmentsByCourse(ctx echo.Context) error {
	courseID, err := strconv.ParseInt(ctx.Param("courseId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "courseId must be numeric")
	}

	assignments, err := c.storage.ListAssignmentsByCourse(ctx.Request().Context(), courseID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assignments)
}

// (POST /api/assignments). Admin only.
func (c *Controller) CreateAssignment(ctx echo.Context) error {
	var req models.CreateAssignmentRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" || req.DueAt == "" || req.CourseID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "title, dueAt and courseId are required")
	}
	dueAt, err := time.Parse(time.RFC3339, req.DueAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dueAt must be RFC 3339")
	}
	if _, err := c.storage.GetCourseByID(ctx.Request().Context(), req.CourseID); err != nil {
		return err
	}

	assignment, err := c.storage.CreateAssignment(ctx.Request().Context(), models.Assignment{
		Title:       req.Title,
		Description: req.Description,
		DueAt:       dueAt,
		CourseID:    req.CourseID,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, assignment)
}
