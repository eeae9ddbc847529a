package models

import "time"

// Role IDs match the seed data created by cmd/create-admin.
const (
	RoleGestorID  = 1
	RoleRelatorID = 2
	RoleAdminID   = 3
)

type User struct {
	UserID   int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Nome     string     `gorm:"column:nome" json:"nome"`
	Email    string     `gorm:"column:email;unique" json:"email"`
	Password string     `gorm:"column:password" json:"-"`
	RoleID   int        `gorm:"column:role_id" json:"role_id"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}
