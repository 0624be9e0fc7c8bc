package dto

import (
	"github.com/hugh/go-tracker/internal/database/models"
	"github.com/hugh/go-tracker/internal/tracker"
)

type CreateTaskRequest struct {
	Title       string       `json:"title" validate:"required,max=255"`
	Description *string      `json:"description"`
	Status      string       `json:"status" validate:"max=50"`
	Priority    string       `json:"priority" validate:"max=50"`
	ProjectID   *uint        `json:"project_id"`
	AssignedTo  *uint        `json:"assigned_to"`
	DueDate     *models.Date `json:"due_date"`
}

func (r CreateTaskRequest) Input() tracker.CreateTaskInput {
	return tracker.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		ProjectID:   r.ProjectID,
		AssignedTo:  r.AssignedTo,
		DueDate:     r.DueDate,
	}
}

type CreateProjectTaskRequest struct {
	Title           string       `json:"title" validate:"required,max=255"`
	Description     *string      `json:"description"`
	Priority        string       `json:"priority" validate:"max=50"`
	AssignedTo      *uint        `json:"assigned_to"`
	WorkflowStageID *uint        `json:"workflow_stage_id"`
	DueDate         *models.Date `json:"due_date"`
}

func (r CreateProjectTaskRequest) Input() tracker.CreateProjectTaskInput {
	return tracker.CreateProjectTaskInput{
		Title:           r.Title,
		Description:     r.Description,
		Priority:        r.Priority,
		AssignedTo:      r.AssignedTo,
		WorkflowStageID: r.WorkflowStageID,
		DueDate:         r.DueDate,
	}
}

type MoveTaskRequest struct {
	WorkflowStageID uint `json:"workflow_stage_id" validate:"required"`
}
