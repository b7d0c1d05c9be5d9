package models

import (
	"time"
)

// ContributionCategory is a named, coded bucket for funds. The code is the
// bill reference contributors type on their phone (e.g. TITHE, OFFERING).
// Only active, non-deleted categories participate in matching.
type ContributionCategory struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
	Code        string    `gorm:"column:code;size:20;not null;uniqueIndex" json:"code"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	IsActive    bool      `gorm:"column:is_active;default:true;index" json:"is_active"`
	IsDeleted   bool      `gorm:"column:is_deleted;default:false" json:"is_deleted"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ContributionCategory) TableName() string {
	return "contribution_categories"
}
