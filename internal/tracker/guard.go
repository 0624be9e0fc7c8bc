package tracker

import (
	"context"

	"github.com/hugh/go-tracker/internal/database/models"
	"gorm.io/gorm"
)

// Guard answers membership questions. It never mutates state.
type Guard struct {
	db *gorm.DB
}

func NewGuard(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// IsMember reports whether userID has a member row (owner or member) in projectID.
func (g *Guard) IsMember(ctx context.Context, projectID, userID uint) (bool, error) {
	return isMember(g.db.WithContext(ctx), projectID, userID)
}

// IsOwner reports whether userID owns projectID.
func (g *Guard) IsOwner(ctx context.Context, projectID, userID uint) (bool, error) {
	return isOwner(g.db.WithContext(ctx), projectID, userID)
}

func isMember(tx *gorm.DB, projectID, userID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, storeErr("checking membership", err)
	}
	return count > 0, nil
}

func isOwner(tx *gorm.DB, projectID, userID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Project{}).
		Where("id = ? AND owner_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, storeErr("checking ownership", err)
	}
	return count > 0, nil
}

func requireMember(tx *gorm.DB, projectID, userID uint) error {
	ok, err := isMember(tx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func requireOwner(tx *gorm.DB, projectID, userID uint) error {
	ok, err := isOwner(tx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
