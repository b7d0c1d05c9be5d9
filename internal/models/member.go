package models

import (
	"time"
)

// Member is a contributor, keyed by normalized phone number. Guest members
// are created by the reconciliation engine from payment metadata rather than
// by registration; the phone uniqueness constraint holds across both kinds.
type Member struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string    `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName     string    `gorm:"column:last_name;size:100;not null" json:"last_name"`
	PhoneNumber  string    `gorm:"column:phone_number;size:20;not null;uniqueIndex" json:"phone_number"`
	Email        *string   `gorm:"column:email;size:255" json:"email"`
	MemberNumber string    `gorm:"column:member_number;size:50;not null;uniqueIndex" json:"member_number"`
	IsActive     bool      `gorm:"column:is_active;default:true;index" json:"is_active"`
	IsGuest      bool      `gorm:"column:is_guest;default:false" json:"is_guest"`
	IsDeleted    bool      `gorm:"column:is_deleted;default:false" json:"is_deleted"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
