package models

import (
	"time"

	"ruralbuild/internal/pkg/rbac"

	"gorm.io/gorm"
)

// User represents users table
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	FullName    string         `gorm:"size:100" json:"full_name"`
	Phone       string         `gorm:"size:20" json:"phone"`
	Role        rbac.Role      `gorm:"size:20;default:'FARMER'" json:"role"`
	RegionCode  string         `gorm:"size:20;index;not null" json:"region_code"`
	RegionName  string         `gorm:"size:100" json:"region_name"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone"`
	Role        rbac.Role  `json:"role"`
	RegionCode  string     `json:"region_code"`
	RegionName  string     `json:"region_name"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Phone:       u.Phone,
		Role:        u.Role,
		RegionCode:  u.RegionCode,
		RegionName:  u.RegionName,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// AutoMigrate migrates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
	)
}
