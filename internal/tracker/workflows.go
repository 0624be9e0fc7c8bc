package tracker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hugh/go-tracker/internal/database/models"
	"gorm.io/gorm"
)

// WorkflowManager handles workflows and their ordered stages. Every operation
// requires the caller to be a member of the owning project.
type WorkflowManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewWorkflowManager(db *gorm.DB, logger *slog.Logger) *WorkflowManager {
	return &WorkflowManager{db: db, logger: logger}
}

// WorkflowWithStages pairs a workflow with its stages in board order.
type WorkflowWithStages struct {
	Workflow models.Workflow        `json:"workflow"`
	Stages   []models.WorkflowStage `json:"stages"`
}

const stageOrder = "stage_order ASC, id ASC"

func (m *WorkflowManager) CreateWorkflow(ctx context.Context, userID, projectID uint, name string) (*models.Workflow, error) {
	name = cleanText(name)
	if projectID == 0 || name == "" {
		fields := map[string]string{}
		if projectID == 0 {
			fields["project_id"] = "project_id is required"
		}
		if name == "" {
			fields["name"] = "name is required"
		}
		return nil, &ValidationError{Fields: fields}
	}

	db := m.db.WithContext(ctx)
	if err := requireMember(db, projectID, userID); err != nil {
		return nil, err
	}

	workflow := models.Workflow{ProjectID: projectID, Name: name}
	if err := db.Create(&workflow).Error; err != nil {
		return nil, storeErr("creating workflow", err)
	}

	m.logger.InfoContext(ctx, "created workflow", "workflow_id", workflow.ID, "project_id", projectID)
	return &workflow, nil
}

func (m *WorkflowManager) UpdateWorkflow(ctx context.Context, userID, workflowID uint, name string) (*models.Workflow, error) {
	name = cleanText(name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}

	db := m.db.WithContext(ctx)
	workflow, err := m.authorizeWorkflow(db, workflowID, userID)
	if err != nil {
		return nil, err
	}

	if err := db.Model(workflow).Update("name", name).Error; err != nil {
		return nil, storeErr("renaming workflow", err)
	}
	workflow.Name = name
	return workflow, nil
}

// DeleteWorkflow removes the workflow and its stages. Tasks sitting on those
// stages are kept with their stage cleared.
func (m *WorkflowManager) DeleteWorkflow(ctx context.Context, userID, workflowID uint) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := m.authorizeWorkflow(tx, workflowID, userID); err != nil {
			return err
		}

		stageIDs := tx.Model(&models.WorkflowStage{}).Select("id").Where("workflow_id = ?", workflowID)
		if err := tx.Model(&models.Task{}).
			Where("workflow_stage_id IN (?)", stageIDs).
			Update("workflow_stage_id", nil).Error; err != nil {
			return storeErr("clearing task stages", err)
		}
		if err := tx.Where("workflow_id = ?", workflowID).Delete(&models.WorkflowStage{}).Error; err != nil {
			return storeErr("deleting stages", err)
		}
		if err := tx.Delete(&models.Workflow{}, workflowID).Error; err != nil {
			return storeErr("deleting workflow", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "deleted workflow", "workflow_id", workflowID)
	return nil
}

// CreateStage appends a stage to a workflow. A nil order means 0.
func (m *WorkflowManager) CreateStage(ctx context.Context, userID, workflowID uint, name string, order *int) (*models.WorkflowStage, error) {
	name = cleanText(name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}

	db := m.db.WithContext(ctx)
	if _, err := m.authorizeWorkflow(db, workflowID, userID); err != nil {
		return nil, err
	}

	stage := models.WorkflowStage{WorkflowID: workflowID, Name: name}
	if order != nil {
		stage.Order = *order
	}
	if err := db.Create(&stage).Error; err != nil {
		return nil, storeErr("creating stage", err)
	}

	m.logger.InfoContext(ctx, "created stage", "stage_id", stage.ID, "workflow_id", workflowID, "order", stage.Order)
	return &stage, nil
}

func (m *WorkflowManager) UpdateStage(ctx context.Context, userID, stageID uint, patch StagePatch) (*models.WorkflowStage, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	db := m.db.WithContext(ctx)
	stage, err := m.authorizeStage(db, stageID, userID)
	if err != nil {
		return nil, err
	}

	if err := db.Model(&models.WorkflowStage{}).
		Where("id = ?", stageID).
		Updates(patch.Fields()).Error; err != nil {
		return nil, storeErr("updating stage", err)
	}
	if patch.Name != nil {
		stage.Name = cleanText(*patch.Name)
	}
	if patch.Order != nil {
		stage.Order = *patch.Order
	}
	return stage, nil
}

// DeleteStage removes a single stage; tasks on it keep existing without a stage.
func (m *WorkflowManager) DeleteStage(ctx context.Context, userID, stageID uint) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := m.authorizeStage(tx, stageID, userID); err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).
			Where("workflow_stage_id = ?", stageID).
			Update("workflow_stage_id", nil).Error; err != nil {
			return storeErr("clearing task stage", err)
		}
		if err := tx.Delete(&models.WorkflowStage{}, stageID).Error; err != nil {
			return storeErr("deleting stage", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "deleted stage", "stage_id", stageID)
	return nil
}

// ListWorkflowsWithStages returns every workflow of the project, oldest first,
// each with its stages in board order.
func (m *WorkflowManager) ListWorkflowsWithStages(ctx context.Context, userID, projectID uint) ([]WorkflowWithStages, error) {
	db := m.db.WithContext(ctx)
	if err := requireMember(db, projectID, userID); err != nil {
		return nil, err
	}

	var workflows []models.Workflow
	if err := db.
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order(stageOrder) }).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&workflows).Error; err != nil {
		return nil, storeErr("listing workflows", err)
	}

	result := make([]WorkflowWithStages, 0, len(workflows))
	for _, wf := range workflows {
		stages := wf.Stages
		if stages == nil {
			stages = []models.WorkflowStage{}
		}
		wf.Stages = nil
		result = append(result, WorkflowWithStages{Workflow: wf, Stages: stages})
	}
	return result, nil
}

// ListProjectStages returns the stages of the project's first workflow.
func (m *WorkflowManager) ListProjectStages(ctx context.Context, userID, projectID uint) ([]models.WorkflowStage, error) {
	db := m.db.WithContext(ctx)
	if err := requireMember(db, projectID, userID); err != nil {
		return nil, err
	}

	stages := []models.WorkflowStage{}
	var workflow models.Workflow
	if err := db.Where("project_id = ?", projectID).Order("id ASC").First(&workflow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stages, nil
		}
		return nil, storeErr("loading workflow", err)
	}

	if err := db.Where("workflow_id = ?", workflow.ID).Order(stageOrder).Find(&stages).Error; err != nil {
		return nil, storeErr("listing stages", err)
	}
	return stages, nil
}

// authorizeWorkflow loads the workflow, then checks membership of its project.
func (m *WorkflowManager) authorizeWorkflow(tx *gorm.DB, workflowID, userID uint) (*models.Workflow, error) {
	var workflow models.Workflow
	if err := tx.First(&workflow, workflowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("workflow", workflowID)
		}
		return nil, storeErr("loading workflow", err)
	}
	if err := requireMember(tx, workflow.ProjectID, userID); err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (m *WorkflowManager) authorizeStage(tx *gorm.DB, stageID, userID uint) (*models.WorkflowStage, error) {
	var stage models.WorkflowStage
	if err := tx.First(&stage, stageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("stage", stageID)
		}
		return nil, storeErr("loading stage", err)
	}
	if _, err := m.authorizeWorkflow(tx, stage.WorkflowID, userID); err != nil {
		return nil, err
	}
	return &stage, nil
}
