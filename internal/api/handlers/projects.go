package handlers

import (
	"net/http"

	"github.com/hugh/go-tracker/internal/api/dto"
	"github.com/hugh/go-tracker/internal/api/middleware"
	"github.com/hugh/go-tracker/internal/tracker"
)

// ProjectHandler serves /projects and the board routes nested under it.
type ProjectHandler struct {
	projects  tracker.ProjectOperations
	tasks     tracker.ProjectTaskOperations
	workflows tracker.WorkflowOperations
	resp      *Responder
}

func NewProjectHandler(projects tracker.ProjectOperations, tasks tracker.ProjectTaskOperations, workflows tracker.WorkflowOperations, resp *Responder) *ProjectHandler {
	return &ProjectHandler{projects: projects, tasks: tasks, workflows: workflows, resp: resp}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.ListProjects(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "", projects)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	project, err := h.projects.CreateProject(r.Context(), middleware.GetUserID(r.Context()), req.Input())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, "Project created", project)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resp.pathID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "", project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resp.pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	project, err := h.projects.UpdateProject(r.Context(), id, middleware.GetUserID(r.Context()), req.Patch())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "Project updated", project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resp.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "Project deleted", dto.SuccessResponse{Success: true})
}

func (h *ProjectHandler) Invite(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resp.pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.InviteRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	if err := h.tasks.InviteMember(r.Context(), id, middleware.GetUserID(r.Context()), req.UserID); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "Member invited", dto.SuccessResponse{Success: true})
}

func (h *ProjectHandler) Members(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resp.pathID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.tasks.GetMembers(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "", members)
}

func (h *ProjectHandler) Stages(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resp.pathID(w, r, "id")
	if !ok {
		return
	}

	stages, err := h.workflows.ListProjectStages(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "", stages)
}

func (h *ProjectHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resp.pathID(w, r, "id")
	if !ok {
		return
	}

	tasks, err := h.tasks.ListProjectTasks(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "", tasks)
}

func (h *ProjectHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resp.pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.CreateProjectTaskRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateProjectTask(r.Context(), middleware.GetUserID(r.Context()), id, req.Input())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, "Task created", task)
}

func (h *ProjectHandler) MoveTask(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.resp.pathID(w, r, "id")
	if !ok {
		return
	}
	taskID, ok := h.resp.pathID(w, r, "taskId")
	if !ok {
		return
	}
	var req dto.MoveTaskRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	err := h.tasks.MoveProjectTask(r.Context(), middleware.GetUserID(r.Context()), projectID, taskID, req.WorkflowStageID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "Task moved", dto.SuccessResponse{Success: true})
}
