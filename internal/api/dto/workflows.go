package dto

import "github.com/hugh/go-tracker/internal/tracker"

type CreateWorkflowRequest struct {
	ProjectID uint   `json:"project_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=255"`
}

type UpdateWorkflowRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// Stage order is accepted as either "order" or "stage_order"; "stage_order"
// wins when both are sent.
type CreateStageRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Order      *int   `json:"order"`
	StageOrder *int   `json:"stage_order"`
}

func (r CreateStageRequest) OrderValue() *int {
	if r.StageOrder != nil {
		return r.StageOrder
	}
	return r.Order
}

type UpdateStageRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=255"`
	Order      *int    `json:"order"`
	StageOrder *int    `json:"stage_order"`
}

func (r UpdateStageRequest) Patch() tracker.StagePatch {
	patch := tracker.StagePatch{Name: r.Name, Order: r.Order}
	if r.StageOrder != nil {
		patch.Order = r.StageOrder
	}
	return patch
}
