package models

// Names seeded into every new project
const (
	DefaultWorkflowName = "Default"
	DefaultStageName    = "To Do"
)

type Workflow struct {
	Base
	ProjectID uint   `gorm:"index;not null" json:"project_id"`
	Name      string `gorm:"size:255;not null" json:"name"`

	Stages []WorkflowStage `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Workflow) TableName() string {
	return "workflows"
}

type WorkflowStage struct {
	Base
	WorkflowID uint   `gorm:"index;not null" json:"workflow_id"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Order      int    `gorm:"column:stage_order;not null;default:0" json:"stage_order"`
}

func (WorkflowStage) TableName() string {
	return "workflow_stages"
}
