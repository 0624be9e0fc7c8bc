package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugh/go-tracker/internal/api/handlers"
	"github.com/hugh/go-tracker/internal/database/models"
	"github.com/hugh/go-tracker/internal/testutil"
	"github.com/hugh/go-tracker/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectHandler_Board(t *testing.T) {
	router, tc := setupTrackerRouter(t)
	token := tc.Token

	rr := serve(router, testutil.AuthenticatedRequest(t, "POST", "/api/projects",
		map[string]interface{}{"title": "Roadmap", "description": "Q3", "start_date": "2024-07-01"}, token))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	var project models.Project
	decodeEnvelope(t, rr, &project)
	require.NotZero(t, project.ID)
	assert.Equal(t, "active", project.Status)
	require.NotNil(t, project.StartDate)
	assert.Equal(t, "2024-07-01", project.StartDate.String())
	base := fmt.Sprintf("/api/projects/%d", project.ID)

	rr = serve(router, testutil.AuthenticatedRequest(t, "GET", base+"/workflow-stages", nil, token))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var stages []models.WorkflowStage
	decodeEnvelope(t, rr, &stages)
	require.Len(t, stages, 1)
	assert.Equal(t, "To Do", stages[0].Name)

	rr = serve(router, testutil.AuthenticatedRequest(t, "POST", base+"/tasks",
		map[string]interface{}{"title": "Design"}, token))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var task models.Task
	decodeEnvelope(t, rr, &task)
	assert.Nil(t, task.WorkflowStageID)

	movePath := fmt.Sprintf("%s/tasks/%d/move", base, task.ID)
	rr = serve(router, testutil.AuthenticatedRequest(t, "PATCH", movePath,
		map[string]interface{}{"workflow_stage_id": stages[0].ID}, token))
	testutil.AssertStatus(t, rr, http.StatusOK)

	t.Run("move to a stage of another project", func(t *testing.T) {
		other := testutil.CreateTestProject(t, tc.Tracker, tc.User, "Other")
		otherStages, err := tc.Tracker.Workflows.ListProjectStages(testutil.TestContext(t), tc.User.ID, other.ID)
		require.NoError(t, err)

		rr := serve(router, testutil.AuthenticatedRequest(t, "PATCH", movePath,
			map[string]interface{}{"workflow_stage_id": otherStages[0].ID}, token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("move without stage", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "PATCH", movePath, map[string]interface{}{}, token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		env := decodeEnvelope(t, rr, nil)
		assert.Contains(t, env.Details, "workflow_stage_id")
	})

	t.Run("list board tasks", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "GET", base+"/tasks", nil, token))
		testutil.AssertStatus(t, rr, http.StatusOK)
		var tasks []models.Task
		decodeEnvelope(t, rr, &tasks)
		require.Len(t, tasks, 1)
		require.NotNil(t, tasks[0].WorkflowStageID)
		assert.Equal(t, stages[0].ID, *tasks[0].WorkflowStageID)
	})

	t.Run("partial update", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "PATCH", base,
			map[string]interface{}{"status": "done"}, token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var updated models.Project
		decodeEnvelope(t, rr, &updated)
		assert.Equal(t, "done", updated.Status)
		assert.Equal(t, "Roadmap", updated.Title)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "Q3", *updated.Description)
	})

	t.Run("null clears nullable fields", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "PATCH", base,
			map[string]interface{}{"description": nil, "start_date": nil}, token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var updated models.Project
		decodeEnvelope(t, rr, &updated)
		assert.Nil(t, updated.Description)
		assert.Nil(t, updated.StartDate)
		assert.Equal(t, "done", updated.Status)
		assert.Equal(t, "Roadmap", updated.Title)
	})
}

func TestProjectHandler_Membership(t *testing.T) {
	router, tc := setupTrackerRouter(t)
	project := testutil.CreateTestProject(t, tc.Tracker, tc.User, "Roadmap")
	base := fmt.Sprintf("/api/projects/%d", project.ID)

	bob := testutil.CreateTestUser(t, tc.DB, "bob")
	bobToken := testutil.GenerateTestToken(t, tc.AccessJWT, bob)
	carol := testutil.CreateTestUser(t, tc.DB, "carol")

	t.Run("non-member is forbidden everywhere", func(t *testing.T) {
		requests := []*http.Request{
			testutil.AuthenticatedRequest(t, "GET", base, nil, bobToken),
			testutil.AuthenticatedRequest(t, "GET", base+"/tasks", nil, bobToken),
			testutil.AuthenticatedRequest(t, "POST", base+"/tasks", map[string]string{"title": "x"}, bobToken),
			testutil.AuthenticatedRequest(t, "GET", base+"/members", nil, bobToken),
			testutil.AuthenticatedRequest(t, "GET", base+"/workflow-stages", nil, bobToken),
			testutil.AuthenticatedRequest(t, "POST", base+"/invite", map[string]uint{"userId": carol.ID}, bobToken),
		}
		for _, req := range requests {
			rr := serve(router, req)
			assert.Equal(t, http.StatusForbidden, rr.Code, "%s %s", req.Method, req.URL.Path)
		}
	})

	t.Run("member invites and sees members", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "POST", base+"/invite",
			map[string]uint{"userId": bob.ID}, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		rr = serve(router, testutil.AuthenticatedRequest(t, "GET", base+"/members", nil, bobToken))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var members []tracker.Member
		decodeEnvelope(t, rr, &members)
		require.Len(t, members, 2)
		assert.Equal(t, bob.ID, members[1].ID)
	})

	t.Run("assignee outside project", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "POST", base+"/tasks",
			map[string]interface{}{"title": "x", "assigned_to": carol.ID}, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("invite unknown user", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "POST", base+"/invite",
			map[string]uint{"userId": carol.ID + 100}, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("only owner deletes", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "DELETE", base, nil, bobToken))
		testutil.AssertStatus(t, rr, http.StatusForbidden)

		rr = serve(router, testutil.AuthenticatedRequest(t, "DELETE", base, nil, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		rr = serve(router, testutil.AuthenticatedRequest(t, "GET", "/api/projects", nil, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)
		var projects []models.Project
		decodeEnvelope(t, rr, &projects)
		assert.Empty(t, projects)
	})

	t.Run("bad id", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "GET", "/api/projects/abc", nil, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("missing token", func(t *testing.T) {
		rr := serve(router, testutil.UnauthenticatedRequest(t, "GET", "/api/projects", nil))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func TestResponder_StoreErrors(t *testing.T) {
	storeErr := &tracker.StoreError{Op: "listing projects", Err: errors.New("pq: connection refused")}

	tests := []struct {
		name    string
		debug   bool
		wantMsg string
	}{
		{"production hides cause", false, "Internal server error"},
		{"development shows cause", true, storeErr.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := handlers.NewResponder(testutil.TestLogger(), tt.debug)
			rr := httptest.NewRecorder()
			resp.Error(rr, httptest.NewRequest("GET", "/api/projects", nil), storeErr)

			testutil.AssertStatus(t, rr, http.StatusInternalServerError)
			env := decodeEnvelope(t, rr, nil)
			assert.Equal(t, tt.wantMsg, env.Error)
		})
	}

	t.Run("mapping", func(t *testing.T) {
		cases := map[error]int{
			tracker.ErrForbidden:                                  http.StatusForbidden,
			tracker.ErrBadAssignee:                                http.StatusBadRequest,
			tracker.ErrInvalidStage:                               http.StatusBadRequest,
			tracker.ErrConflict:                                   http.StatusConflict,
			fmt.Errorf("task 3: %w", tracker.ErrNotFound):         http.StatusNotFound,
			&tracker.ValidationError{Fields: map[string]string{}}: http.StatusBadRequest,
		}
		resp := handlers.NewResponder(testutil.TestLogger(), false)
		for err, want := range cases {
			rr := httptest.NewRecorder()
			resp.Error(rr, httptest.NewRequest("GET", "/", nil), err)
			assert.Equal(t, want, rr.Code, err.Error())
		}
	})
}
