package tracker

import (
	"slices"

	"github.com/hugh/go-tracker/internal/database/models"
)

// Nullable project columns that a patch may reset to NULL.
const (
	ColumnDescription = "description"
	ColumnStartDate   = "start_date"
	ColumnEndDate     = "end_date"
)

// ProjectPatch is a partial update. A nil field is left untouched; columns
// named in Clear are set to NULL.
type ProjectPatch struct {
	Title       *string
	Description *string
	Status      *string
	StartDate   *models.Date
	EndDate     *models.Date
	Clear       []string
}

func (p ProjectPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.StartDate == nil && p.EndDate == nil && len(p.Clear) == 0
}

func (p ProjectPatch) isSet(column string) bool {
	switch column {
	case ColumnDescription:
		return p.Description != nil
	case ColumnStartDate:
		return p.StartDate != nil
	case ColumnEndDate:
		return p.EndDate != nil
	}
	return false
}

func (p ProjectPatch) validate() error {
	if p.IsEmpty() {
		return invalid("patch", "no fields to update")
	}
	if p.Title != nil && cleanText(*p.Title) == "" {
		return invalid("title", "title cannot be empty")
	}
	if p.Status != nil && cleanText(*p.Status) == "" {
		return invalid("status", "status cannot be empty")
	}
	for _, column := range p.Clear {
		if !slices.Contains([]string{ColumnDescription, ColumnStartDate, ColumnEndDate}, column) {
			return invalid(column, column+" cannot be cleared")
		}
		if p.isSet(column) {
			return invalid(column, column+" is both set and cleared")
		}
	}
	return nil
}

// Fields returns the column assignments for present fields only.
func (p ProjectPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Title != nil {
		fields["title"] = cleanText(*p.Title)
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Status != nil {
		fields["status"] = cleanText(*p.Status)
	}
	if p.StartDate != nil {
		fields["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		fields["end_date"] = *p.EndDate
	}
	for _, column := range p.Clear {
		fields[column] = nil
	}
	return fields
}

// StagePatch is a partial update of a workflow stage.
type StagePatch struct {
	Name  *string
	Order *int
}

func (p StagePatch) IsEmpty() bool {
	return p.Name == nil && p.Order == nil
}

func (p StagePatch) validate() error {
	if p.IsEmpty() {
		return invalid("patch", "nothing to update")
	}
	if p.Name != nil && cleanText(*p.Name) == "" {
		return invalid("name", "name cannot be empty")
	}
	return nil
}

func (p StagePatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Name != nil {
		fields["name"] = cleanText(*p.Name)
	}
	if p.Order != nil {
		fields["stage_order"] = *p.Order
	}
	return fields
}
