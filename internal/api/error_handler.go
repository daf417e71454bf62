package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rinesakuci/campus-hub/internal/service"
	"github.com/rinesakuci/campus-hub/internal/storage"
	"github.com/rinesakuci/campus-hub/internal/util"
)

func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if status, ok := statusFor(err); ok {
			writeJSON(log, c, status, err.Error())
			return
		}

		var customErr util.MyResponseError
		if errors.As(err, &customErr) {
			writeJSON(log, c, customErr.Status, customErr.Msg)
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code == http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			writeJSON(log, c, he.Code, fmt.Sprint(he.Message))
			return
		}

		log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		writeJSON(log, c, http.StatusInternalServerError, "internal server error")
	}
}

// statusFor maps service and storage sentinels to HTTP statuses. Auth
// failures collapse to 401 without leaking which check failed.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrMissingRefresh),
		errors.Is(err, service.ErrInvalidRefresh),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenInvalid):
		return http.StatusUnauthorized, true
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, storage.ErrEmailExists):
		return http.StatusConflict, true
	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrAssignmentNotFound),
		errors.Is(err, storage.ErrCourseNotFound):
		return http.StatusNotFound, true
	}
	return 0, false
}

func writeJSON(log *zap.SugaredLogger, c echo.Context, status int, reason string) {
	if err := c.JSON(status, map[string]string{"reason": reason}); err != nil {
		log.Errorw("failed to write json response", "error", err)
	}
}
