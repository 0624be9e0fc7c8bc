package tracker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hugh/go-tracker/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskManager covers personal task operations and the project board:
// project tasks, stage moves and membership.
type TaskManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewTaskManager(db *gorm.DB, logger *slog.Logger) *TaskManager {
	return &TaskManager{db: db, logger: logger}
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Status      string
	Priority    string
	ProjectID   *uint
	AssignedTo  *uint
	DueDate     *models.Date
}

type CreateProjectTaskInput struct {
	Title           string
	Description     *string
	Priority        string
	AssignedTo      *uint
	WorkflowStageID *uint
	DueDate         *models.Date
}

// Member is a user as seen from a project's member list.
type Member struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ListTasks returns tasks the user created or is assigned to, newest first,
// optionally limited to one project.
func (m *TaskManager) ListTasks(ctx context.Context, userID uint, projectID *uint) ([]models.Task, error) {
	q := m.db.WithContext(ctx).Where("(created_by = ? OR assigned_to = ?)", userID, userID)
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}

	tasks := []models.Task{}
	if err := q.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, storeErr("listing tasks", err)
	}
	return tasks, nil
}

// GetTask returns a task visible to its creator, its assignee, or any member
// of the project it belongs to.
func (m *TaskManager) GetTask(ctx context.Context, userID, taskID uint) (*models.Task, error) {
	db := m.db.WithContext(ctx)

	var task models.Task
	if err := db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("task", taskID)
		}
		return nil, storeErr("loading task", err)
	}

	if isUser(task.CreatedBy, userID) || isUser(task.AssignedTo, userID) {
		return &task, nil
	}
	if task.ProjectID == nil {
		return nil, ErrForbidden
	}
	if err := requireMember(db, *task.ProjectID, userID); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask stores a personal task. With a project, the creator must be a
// member and any assignee must be one too.
func (m *TaskManager) CreateTask(ctx context.Context, userID uint, input CreateTaskInput) (*models.Task, error) {
	title := cleanText(input.Title)
	if title == "" {
		return nil, invalid("title", "title is required")
	}

	task := models.Task{
		Title:       title,
		Description: input.Description,
		Status:      defaultString(input.Status, models.TaskStatusTodo),
		Priority:    defaultString(input.Priority, models.TaskPriorityMedium),
		ProjectID:   input.ProjectID,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   &userID,
		DueDate:     input.DueDate,
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.ProjectID != nil {
			if err := requireMember(tx, *input.ProjectID, userID); err != nil {
				return err
			}
			if err := checkAssignee(tx, *input.ProjectID, input.AssignedTo); err != nil {
				return err
			}
		} else if input.AssignedTo != nil {
			if err := requireUser(tx, *input.AssignedTo); err != nil {
				return err
			}
		}

		if err := tx.Create(&task).Error; err != nil {
			return storeErr("creating task", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "created task", "task_id", task.ID, "user_id", userID)
	return &task, nil
}

func (m *TaskManager) ListProjectTasks(ctx context.Context, userID, projectID uint) ([]models.Task, error) {
	db := m.db.WithContext(ctx)
	if err := requireMember(db, projectID, userID); err != nil {
		return nil, err
	}

	tasks := []models.Task{}
	if err := db.Where("project_id = ?", projectID).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, storeErr("listing project tasks", err)
	}
	return tasks, nil
}

// CreateProjectTask places a new task on the project board, optionally on an
// initial stage that must belong to the project.
func (m *TaskManager) CreateProjectTask(ctx context.Context, userID, projectID uint, input CreateProjectTaskInput) (*models.Task, error) {
	title := cleanText(input.Title)
	if title == "" {
		return nil, invalid("title", "title is required")
	}

	task := models.Task{
		Title:           title,
		Description:     input.Description,
		Status:          models.TaskStatusTodo,
		Priority:        defaultString(input.Priority, models.TaskPriorityMedium),
		ProjectID:       &projectID,
		WorkflowStageID: input.WorkflowStageID,
		AssignedTo:      input.AssignedTo,
		CreatedBy:       &userID,
		DueDate:         input.DueDate,
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireMember(tx, projectID, userID); err != nil {
			return err
		}
		if err := checkAssignee(tx, projectID, input.AssignedTo); err != nil {
			return err
		}
		if input.WorkflowStageID != nil {
			if err := requireProjectStage(tx, projectID, *input.WorkflowStageID); err != nil {
				return err
			}
		}

		if err := tx.Create(&task).Error; err != nil {
			return storeErr("creating project task", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "created project task", "task_id", task.ID, "project_id", projectID)
	return &task, nil
}

// MoveProjectTask puts the task on stageID. The update is scoped by project so
// a task id from another project never matches.
func (m *TaskManager) MoveProjectTask(ctx context.Context, userID, projectID, taskID, stageID uint) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireMember(tx, projectID, userID); err != nil {
			return err
		}
		if err := requireProjectStage(tx, projectID, stageID); err != nil {
			return err
		}

		result := tx.Model(&models.Task{}).
			Where("id = ? AND project_id = ?", taskID, projectID).
			Update("workflow_stage_id", stageID)
		if result.Error != nil {
			return storeErr("moving task", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound("task", taskID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "moved task", "task_id", taskID, "project_id", projectID, "stage_id", stageID)
	return nil
}

func (m *TaskManager) GetMembers(ctx context.Context, userID, projectID uint) ([]Member, error) {
	db := m.db.WithContext(ctx)
	if err := requireMember(db, projectID, userID); err != nil {
		return nil, err
	}

	members := []Member{}
	if err := db.Table("users u").
		Select("u.id, u.name, u.email, m.role").
		Joins("JOIN project_members m ON u.id = m.user_id").
		Where("m.project_id = ?", projectID).
		Order("m.id ASC").
		Scan(&members).Error; err != nil {
		return nil, storeErr("listing members", err)
	}
	return members, nil
}

// InviteMember adds inviteeID as a member. Inviting an existing member is a no-op.
func (m *TaskManager) InviteMember(ctx context.Context, projectID, inviterID, inviteeID uint) error {
	if inviteeID == 0 {
		return invalid("userId", "userId is required")
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireMember(tx, projectID, inviterID); err != nil {
			return err
		}
		if err := requireUser(tx, inviteeID); err != nil {
			if errors.Is(err, ErrBadAssignee) {
				return notFound("user", inviteeID)
			}
			return err
		}

		member := models.ProjectMember{ProjectID: projectID, UserID: inviteeID, Role: models.RoleMember}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error; err != nil {
			return storeErr("inviting member", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "invited member", "project_id", projectID, "inviter_id", inviterID, "invitee_id", inviteeID)
	return nil
}

func checkAssignee(tx *gorm.DB, projectID uint, assignee *uint) error {
	if assignee == nil {
		return nil
	}
	ok, err := isMember(tx, projectID, *assignee)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadAssignee
	}
	return nil
}

func requireUser(tx *gorm.DB, userID uint) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return storeErr("checking user", err)
	}
	if count == 0 {
		return ErrBadAssignee
	}
	return nil
}

func requireProjectStage(tx *gorm.DB, projectID, stageID uint) error {
	var count int64
	err := tx.Model(&models.WorkflowStage{}).
		Joins("JOIN workflows w ON w.id = workflow_stages.workflow_id").
		Where("workflow_stages.id = ? AND w.project_id = ?", stageID, projectID).
		Count(&count).Error
	if err != nil {
		return storeErr("checking stage", err)
	}
	if count == 0 {
		return ErrInvalidStage
	}
	return nil
}

func isUser(ref *uint, userID uint) bool {
	return ref != nil && *ref == userID
}

func defaultString(s, fallback string) string {
	if s = cleanText(s); s == "" {
		return fallback
	}
	return s
}
