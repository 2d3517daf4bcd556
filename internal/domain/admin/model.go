package admin

import "time"

// AdminUser is a dashboard operator. All admins have the same rights.
type AdminUser struct {
	ID           int64     `json:"id" gorm:"column:id;primaryKey"`
	Username     string    `json:"username" gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"-" gorm:"column:updated_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

const BootstrapUsername = "admin"
