// Package tracker holds the project, workflow and task rules: who may read or
// change which rows, and how tasks move between stages.
package tracker

import (
	"log/slog"

	"gorm.io/gorm"
)

// Service bundles the managers that share one store handle.
type Service struct {
	Guard     *Guard
	Projects  *ProjectManager
	Workflows *WorkflowManager
	Tasks     *TaskManager
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{
		Guard:     NewGuard(db),
		Projects:  NewProjectManager(db, logger),
		Workflows: NewWorkflowManager(db, logger),
		Tasks:     NewTaskManager(db, logger),
	}
}
