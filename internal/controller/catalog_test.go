package controller_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinesakuci/campus-hub/internal/models"
)

func adminBearer(t *testing.T, e *echo.Echo) func(*http.Request) {
	t.Helper()
	register(t, e, "Rina", "rina@x.com", "secret123", models.RoleAdmin)
	resp, _ := login(t, e, "rina@x.com", "secret123")
	return func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+resp.AccessToken) }
}

func TestCreateAssignmentUnknownCourse(t *testing.T) {
	e := newTestServer(t)
	asAdmin := adminBearer(t, e)

	rec := doJSON(e, http.MethodPost, "/api/assignments",
		`{"title":"HW1","courseId":999,"dueAt":"2026-09-15T12:00:00Z"}`, asAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestCreateAssignmentForExistingCourse(t *testing.T) {
	e := newTestServer(t)
	asAdmin := adminBearer(t, e)

	rec := doJSON(e, http.MethodPost, "/api/courses", `{"name":"Databases","code":"DB201"}`, asAdmin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var course models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &course))

	body := fmt.Sprintf(`{"title":"HW1","courseId":%d,"dueAt":"2026-09-15T12:00:00Z"}`, course.ID)
	rec = doJSON(e, http.MethodPost, "/api/assignments", body, asAdmin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var assignment models.Assignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assignment))
	assert.Equal(t, course.ID, assignment.CourseID)
}

func TestCreateEventUnknownCourse(t *testing.T) {
	e := newTestServer(t)
	asAdmin := adminBearer(t, e)

	rec := doJSON(e, http.MethodPost, "/api/events",
		`{"title":"Exam review","date":"2026-09-10T10:00:00Z","courseId":999}`, asAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	// Events without a course reference are fine.
	rec = doJSON(e, http.MethodPost, "/api/events",
		`{"title":"Open day","date":"2026-09-10T10:00:00Z"}`, asAdmin)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
