package handlers

import (
	"net/http"

	"github.com/hugh/go-tracker/internal/api/dto"
	"github.com/hugh/go-tracker/internal/api/middleware"
	"github.com/hugh/go-tracker/internal/tracker"
)

type WorkflowHandler struct {
	workflows tracker.WorkflowOperations
	resp      *Responder
}

func NewWorkflowHandler(workflows tracker.WorkflowOperations, resp *Responder) *WorkflowHandler {
	return &WorkflowHandler{workflows: workflows, resp: resp}
}

// ListByProject returns every workflow of the project with its stages.
func (h *WorkflowHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.resp.pathID(w, r, "id")
	if !ok {
		return
	}

	boards, err := h.workflows.ListWorkflowsWithStages(r.Context(), middleware.GetUserID(r.Context()), projectID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "", boards)
}

func (h *WorkflowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWorkflowRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	workflow, err := h.workflows.CreateWorkflow(r.Context(), middleware.GetUserID(r.Context()), req.ProjectID, req.Name)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, "Workflow created", workflow)
}

func (h *WorkflowHandler) Update(w http.ResponseWriter, r *http.Request) {
	workflowID, ok := h.resp.pathID(w, r, "workflowId")
	if !ok {
		return
	}
	var req dto.UpdateWorkflowRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	workflow, err := h.workflows.UpdateWorkflow(r.Context(), middleware.GetUserID(r.Context()), workflowID, req.Name)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "Workflow updated", workflow)
}

func (h *WorkflowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workflowID, ok := h.resp.pathID(w, r, "workflowId")
	if !ok {
		return
	}

	if err := h.workflows.DeleteWorkflow(r.Context(), middleware.GetUserID(r.Context()), workflowID); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "Workflow deleted", dto.SuccessResponse{Success: true})
}

func (h *WorkflowHandler) CreateStage(w http.ResponseWriter, r *http.Request) {
	workflowID, ok := h.resp.pathID(w, r, "workflowId")
	if !ok {
		return
	}
	var req dto.CreateStageRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	stage, err := h.workflows.CreateStage(r.Context(), middleware.GetUserID(r.Context()), workflowID, req.Name, req.OrderValue())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, "Stage created", stage)
}

func (h *WorkflowHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	stageID, ok := h.resp.pathID(w, r, "stageId")
	if !ok {
		return
	}
	var req dto.UpdateStageRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	stage, err := h.workflows.UpdateStage(r.Context(), middleware.GetUserID(r.Context()), stageID, req.Patch())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "Stage updated", stage)
}

func (h *WorkflowHandler) DeleteStage(w http.ResponseWriter, r *http.Request) {
	stageID, ok := h.resp.pathID(w, r, "stageId")
	if !ok {
		return
	}

	if err := h.workflows.DeleteStage(r.Context(), middleware.GetUserID(r.Context()), stageID); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, "Stage deleted", dto.SuccessResponse{Success: true})
}
