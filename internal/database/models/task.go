package models

// Task defaults
const (
	TaskStatusTodo     = "todo"
	TaskPriorityMedium = "medium"
)

// Task covers both personal tasks and tasks placed on a project board. A
// project task carries ProjectID and, once placed, WorkflowStageID.
type Task struct {
	Base
	Title           string  `gorm:"size:255;not null" json:"title"`
	Description     *string `json:"description"`
	Status          string  `gorm:"size:50;not null;default:'todo'" json:"status"`
	Priority        string  `gorm:"size:50;not null;default:'medium'" json:"priority"`
	ProjectID       *uint   `gorm:"index" json:"project_id"`
	WorkflowStageID *uint   `gorm:"index" json:"workflow_stage_id"`
	AssignedTo      *uint   `gorm:"index" json:"assigned_to"`
	CreatedBy       *uint   `gorm:"index" json:"created_by"`
	DueDate         *Date   `gorm:"type:date" json:"due_date"`

	// Relationships
	Project  *Project       `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"-"`
	Stage    *WorkflowStage `gorm:"foreignKey:WorkflowStageID;constraint:OnDelete:SET NULL" json:"-"`
	Assignee *User          `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"-"`
	Creator  *User          `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}
