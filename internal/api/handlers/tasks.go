package handlers

import (
	"net/http"
	"strconv"

	"github.com/hugh/go-tracker/internal/api/dto"
	"github.com/hugh/go-tracker/internal/api/middleware"
	"github.com/hugh/go-tracker/internal/tracker"
)

// TaskHandler serves the personal task list under /tasks.
type TaskHandler struct {
	tasks tracker.PersonalTaskOperations
	resp  *Responder
}

func NewTaskHandler(tasks tracker.PersonalTaskOperations, resp *Responder) *TaskHandler {
	return &TaskHandler{tasks: tasks, resp: resp}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	var projectID *uint
	if raw := r.URL.Query().Get("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			h.resp.Fail(w, http.StatusBadRequest, "Invalid project_id", nil)
			return
		}
		pid := uint(id)
		projectID = &pid
	}

	tasks, err := h.tasks.ListTasks(r.Context(), middleware.GetUserID(r.Context()), projectID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "", tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), middleware.GetUserID(r.Context()), req.Input())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, "Task created", task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resp.pathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "", task)
}
