package tracker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hugh/go-tracker/internal/database/models"
	"gorm.io/gorm"
)

// ProjectManager owns project rows and the default board every project starts with.
type ProjectManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewProjectManager(db *gorm.DB, logger *slog.Logger) *ProjectManager {
	return &ProjectManager{db: db, logger: logger}
}

type CreateProjectInput struct {
	Title       string
	Description *string
	Status      string
	StartDate   *models.Date
	EndDate     *models.Date
}

// ListProjects returns every project userID belongs to, as owner or member.
func (m *ProjectManager) ListProjects(ctx context.Context, userID uint) ([]models.Project, error) {
	projects := []models.Project{}
	if err := m.db.WithContext(ctx).
		Joins("JOIN project_members m ON m.project_id = projects.id").
		Where("m.user_id = ?", userID).
		Order("projects.id").
		Find(&projects).Error; err != nil {
		return nil, storeErr("listing projects", err)
	}
	return projects, nil
}

// GetProject checks membership before existence, so an unknown id reads as
// ErrForbidden rather than ErrNotFound.
func (m *ProjectManager) GetProject(ctx context.Context, projectID, userID uint) (*models.Project, error) {
	db := m.db.WithContext(ctx)
	if err := requireMember(db, projectID, userID); err != nil {
		return nil, err
	}
	return findProject(db, projectID)
}

// CreateProject stores the project together with the owner's membership, a
// "Default" workflow and its "To Do" stage. Either all four rows exist or none.
func (m *ProjectManager) CreateProject(ctx context.Context, userID uint, input CreateProjectInput) (*models.Project, error) {
	title := cleanText(input.Title)
	if title == "" {
		return nil, invalid("title", "title is required")
	}
	status := cleanText(input.Status)
	if status == "" {
		status = models.ProjectStatusActive
	}

	project := models.Project{
		Title:       title,
		Description: input.Description,
		Status:      status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		OwnerID:     userID,
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return storeErr("creating project", err)
		}

		owner := models.ProjectMember{ProjectID: project.ID, UserID: userID, Role: models.RoleOwner}
		if err := tx.Create(&owner).Error; err != nil {
			return storeErr("adding owner membership", err)
		}

		workflow := models.Workflow{ProjectID: project.ID, Name: models.DefaultWorkflowName}
		if err := tx.Create(&workflow).Error; err != nil {
			return storeErr("creating default workflow", err)
		}

		stage := models.WorkflowStage{WorkflowID: workflow.ID, Name: models.DefaultStageName, Order: 0}
		if err := tx.Create(&stage).Error; err != nil {
			return storeErr("creating default stage", err)
		}
		return nil
	})
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to create project", "user_id", userID, "error", err)
		return nil, err
	}

	m.logger.InfoContext(ctx, "created project", "project_id", project.ID, "owner_id", userID)
	return &project, nil
}

// UpdateProject applies the present fields of patch. Only the owner may update.
func (m *ProjectManager) UpdateProject(ctx context.Context, projectID, userID uint, patch ProjectPatch) (*models.Project, error) {
	var project *models.Project
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwner(tx, projectID, userID); err != nil {
			return err
		}
		if err := patch.validate(); err != nil {
			return err
		}

		if err := tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			Updates(patch.Fields()).Error; err != nil {
			return storeErr("updating project", err)
		}

		var err error
		project, err = findProject(tx, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "updated project", "project_id", projectID, "fields", len(patch.Fields()))
	return project, nil
}

// DeleteProject removes the project, its members, workflows and stages. Tasks
// that referenced the project survive with project and stage cleared.
func (m *ProjectManager) DeleteProject(ctx context.Context, projectID, userID uint) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwner(tx, projectID, userID); err != nil {
			return err
		}

		workflowIDs := tx.Model(&models.Workflow{}).Select("id").Where("project_id = ?", projectID)
		stageIDs := tx.Model(&models.WorkflowStage{}).Select("id").Where("workflow_id IN (?)", workflowIDs)

		if err := tx.Model(&models.Task{}).
			Where("project_id = ? OR workflow_stage_id IN (?)", projectID, stageIDs).
			Updates(map[string]interface{}{"project_id": nil, "workflow_stage_id": nil}).Error; err != nil {
			return storeErr("detaching project tasks", err)
		}
		if err := tx.Where("workflow_id IN (?)", workflowIDs).Delete(&models.WorkflowStage{}).Error; err != nil {
			return storeErr("deleting stages", err)
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Workflow{}).Error; err != nil {
			return storeErr("deleting workflows", err)
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error; err != nil {
			return storeErr("deleting members", err)
		}
		if err := tx.Delete(&models.Project{}, projectID).Error; err != nil {
			return storeErr("deleting project", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "deleted project", "project_id", projectID)
	return nil
}

func findProject(tx *gorm.DB, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := tx.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("project", projectID)
		}
		return nil, storeErr("loading project", err)
	}
	return &project, nil
}
