package dto

import (
	"bytes"
	"encoding/json"

	"github.com/hugh/go-tracker/internal/database/models"
	"github.com/hugh/go-tracker/internal/tracker"
)

type CreateProjectRequest struct {
	Title       string       `json:"title" validate:"required,max=255"`
	Description *string      `json:"description"`
	Status      string       `json:"status" validate:"max=50"`
	StartDate   *models.Date `json:"start_date"`
	EndDate     *models.Date `json:"end_date"`
}

func (r CreateProjectRequest) Input() tracker.CreateProjectInput {
	return tracker.CreateProjectInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// UpdateProjectRequest is a partial update; absent fields stay unchanged and
// an explicit null clears description, start_date or end_date.
type UpdateProjectRequest struct {
	Title       *string      `json:"title" validate:"omitempty,max=255"`
	Description *string      `json:"description"`
	Status      *string      `json:"status" validate:"omitempty,max=50"`
	StartDate   *models.Date `json:"start_date"`
	EndDate     *models.Date `json:"end_date"`

	cleared []string
}

func (r *UpdateProjectRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateProjectRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.cleared = nil
	for _, column := range []string{tracker.ColumnDescription, tracker.ColumnStartDate, tracker.ColumnEndDate} {
		if v, ok := raw[column]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			r.cleared = append(r.cleared, column)
		}
	}
	return nil
}

func (r UpdateProjectRequest) Patch() tracker.ProjectPatch {
	return tracker.ProjectPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Clear:       r.cleared,
	}
}

type InviteRequest struct {
	UserID uint `json:"userId" validate:"required"`
}
