package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/hugh/go-tracker/internal/database/models"
	"github.com/hugh/go-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskHandler(t *testing.T) {
	router, tc := setupTrackerRouter(t)
	token := tc.Token
	project := testutil.CreateTestProject(t, tc.Tracker, tc.User, "Roadmap")

	rr := serve(router, testutil.AuthenticatedRequest(t, "POST", "/api/tasks",
		map[string]interface{}{"title": "Groceries", "due_date": "2025-06-30"}, token))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var personal models.Task
	decodeEnvelope(t, rr, &personal)
	assert.Equal(t, "todo", personal.Status)
	assert.Equal(t, "medium", personal.Priority)
	require.NotNil(t, personal.DueDate)
	assert.Equal(t, "2025-06-30", personal.DueDate.String())

	rr = serve(router, testutil.AuthenticatedRequest(t, "POST", "/api/tasks",
		map[string]interface{}{"title": "Plan", "project_id": project.ID, "priority": "high"}, token))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var planned models.Task
	decodeEnvelope(t, rr, &planned)

	t.Run("list all", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "GET", "/api/tasks/gettasks", nil, token))
		testutil.AssertStatus(t, rr, http.StatusOK)
		var tasks []models.Task
		decodeEnvelope(t, rr, &tasks)
		require.Len(t, tasks, 2)
		assert.Equal(t, planned.ID, tasks[0].ID)
	})

	t.Run("list by project", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "GET",
			fmt.Sprintf("/api/tasks/gettasks?project_id=%d", project.ID), nil, token))
		testutil.AssertStatus(t, rr, http.StatusOK)
		var tasks []models.Task
		decodeEnvelope(t, rr, &tasks)
		require.Len(t, tasks, 1)
		assert.Equal(t, "high", tasks[0].Priority)
	})

	t.Run("bad project filter", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "GET", "/api/tasks/gettasks?project_id=x", nil, token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("missing title", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "POST", "/api/tasks", map[string]string{}, token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("bad due date", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "POST", "/api/tasks",
			map[string]string{"title": "x", "due_date": "30/06/2025"}, token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("get task", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "GET", fmt.Sprintf("/api/tasks/%d", personal.ID), nil, token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		bob := testutil.CreateTestUser(t, tc.DB, "bob")
		bobToken := testutil.GenerateTestToken(t, tc.AccessJWT, bob)
		rr = serve(router, testutil.AuthenticatedRequest(t, "GET", fmt.Sprintf("/api/tasks/%d", personal.ID), nil, bobToken))
		testutil.AssertStatus(t, rr, http.StatusForbidden)

		rr = serve(router, testutil.AuthenticatedRequest(t, "GET", fmt.Sprintf("/api/tasks/%d", personal.ID+100), nil, token))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}
