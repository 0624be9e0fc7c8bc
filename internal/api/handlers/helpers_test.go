package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/go-tracker/internal/api/handlers"
	"github.com/hugh/go-tracker/internal/api/middleware"
	"github.com/hugh/go-tracker/internal/testutil"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()

	var env envelope
	testutil.ParseJSONResponse(t, rr, &env)
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), "data: %s", env.Data)
	}
	return env
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// setupTrackerRouter mounts the project, workflow and task routes behind the
// auth middleware.
func setupTrackerRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	t.Helper()

	tc := testutil.NewTestContext(t)
	resp := handlers.NewResponder(testutil.TestLogger(), false)
	projects := handlers.NewProjectHandler(tc.Tracker.Projects, tc.Tracker.Tasks, tc.Tracker.Workflows, resp)
	workflows := handlers.NewWorkflowHandler(tc.Tracker.Workflows, resp)
	tasks := handlers.NewTaskHandler(tc.Tracker.Tasks, resp)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.AccessJWT))

		r.Get("/api/projects", projects.List)
		r.Post("/api/projects", projects.Create)
		r.Get("/api/projects/{id}", projects.Get)
		r.Patch("/api/projects/{id}", projects.Update)
		r.Delete("/api/projects/{id}", projects.Delete)
		r.Post("/api/projects/{id}/invite", projects.Invite)
		r.Get("/api/projects/{id}/members", projects.Members)
		r.Get("/api/projects/{id}/workflow-stages", projects.Stages)
		r.Get("/api/projects/{id}/tasks", projects.Tasks)
		r.Post("/api/projects/{id}/tasks", projects.CreateTask)
		r.Patch("/api/projects/{id}/tasks/{taskId}/move", projects.MoveTask)

		r.Get("/api/workflow/project/{id}", workflows.ListByProject)
		r.Post("/api/workflow", workflows.Create)
		r.Patch("/api/workflow/stages/{stageId}", workflows.UpdateStage)
		r.Delete("/api/workflow/stages/{stageId}", workflows.DeleteStage)
		r.Patch("/api/workflow/{workflowId}", workflows.Update)
		r.Delete("/api/workflow/{workflowId}", workflows.Delete)
		r.Post("/api/workflow/{workflowId}/stages", workflows.CreateStage)

		r.Get("/api/tasks/gettasks", tasks.List)
		r.Post("/api/tasks", tasks.Create)
		r.Get("/api/tasks/{id}", tasks.Get)
	})

	return r, tc
}
