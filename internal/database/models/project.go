package models

import "time"

// Project member roles
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

const ProjectStatusActive = "active"

type Project struct {
	Base
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description *string `json:"description"`
	Status      string  `gorm:"size:50;default:'active'" json:"status"`
	StartDate   *Date   `gorm:"type:date" json:"start_date"`
	EndDate     *Date   `gorm:"type:date" json:"end_date"`
	OwnerID     uint    `gorm:"index;not null" json:"owner_id"`

	// Relationships
	Owner     *User           `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Members   []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Workflows []Workflow      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Project) TableName() string {
	return "projects"
}

type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_project_members_project_user" json:"project_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_project_members_project_user;index" json:"user_id"`
	Role      string    `gorm:"size:50;not null;default:'member'" json:"role"` // owner, member
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}
