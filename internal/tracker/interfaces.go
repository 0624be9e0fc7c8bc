package tracker

import (
	"context"

	"github.com/hugh/go-tracker/internal/database/models"
)

// MembershipChecker answers "is U a member/owner of P".
type MembershipChecker interface {
	IsMember(ctx context.Context, projectID, userID uint) (bool, error)
	IsOwner(ctx context.Context, projectID, userID uint) (bool, error)
}

// ProjectOperations manages projects themselves.
type ProjectOperations interface {
	ListProjects(ctx context.Context, userID uint) ([]models.Project, error)
	GetProject(ctx context.Context, projectID, userID uint) (*models.Project, error)
	CreateProject(ctx context.Context, userID uint, input CreateProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID, userID uint, patch ProjectPatch) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID, userID uint) error
}

// WorkflowOperations manages a project's workflows and stages.
type WorkflowOperations interface {
	CreateWorkflow(ctx context.Context, userID, projectID uint, name string) (*models.Workflow, error)
	UpdateWorkflow(ctx context.Context, userID, workflowID uint, name string) (*models.Workflow, error)
	DeleteWorkflow(ctx context.Context, userID, workflowID uint) error
	CreateStage(ctx context.Context, userID, workflowID uint, name string, order *int) (*models.WorkflowStage, error)
	UpdateStage(ctx context.Context, userID, stageID uint, patch StagePatch) (*models.WorkflowStage, error)
	DeleteStage(ctx context.Context, userID, stageID uint) error
	ListWorkflowsWithStages(ctx context.Context, userID, projectID uint) ([]WorkflowWithStages, error)
	ListProjectStages(ctx context.Context, userID, projectID uint) ([]models.WorkflowStage, error)
}

// ProjectTaskOperations works on a project's board and its members.
type ProjectTaskOperations interface {
	ListProjectTasks(ctx context.Context, userID, projectID uint) ([]models.Task, error)
	CreateProjectTask(ctx context.Context, userID, projectID uint, input CreateProjectTaskInput) (*models.Task, error)
	MoveProjectTask(ctx context.Context, userID, projectID, taskID, stageID uint) error
	GetMembers(ctx context.Context, userID, projectID uint) ([]Member, error)
	InviteMember(ctx context.Context, projectID, inviterID, inviteeID uint) error
}

// PersonalTaskOperations works on the tasks a user created or was given.
type PersonalTaskOperations interface {
	ListTasks(ctx context.Context, userID uint, projectID *uint) ([]models.Task, error)
	CreateTask(ctx context.Context, userID uint, input CreateTaskInput) (*models.Task, error)
	GetTask(ctx context.Context, userID, taskID uint) (*models.Task, error)
}

// Compile-time interface satisfaction checks
var (
	_ MembershipChecker      = (*Guard)(nil)
	_ ProjectOperations      = (*ProjectManager)(nil)
	_ WorkflowOperations     = (*WorkflowManager)(nil)
	_ ProjectTaskOperations  = (*TaskManager)(nil)
	_ PersonalTaskOperations = (*TaskManager)(nil)
)
