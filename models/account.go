package models

import (
	"time"

	"gorm.io/gorm"
)

// Owner is the party slips belong to; disposes cancellation requests.
type Owner struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FullName string `gorm:"column:full_name;size:255" json:"full_name"`
	Email    string `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	Password string `gorm:"column:password;size:255" json:"-"`
}

// Customer is the requesting party (the boater).
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FullName string `gorm:"column:full_name;size:255" json:"full_name"`
	Email    string `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	Password string `gorm:"column:password;size:255" json:"-"`
	Phone    string `gorm:"column:phone;size:32" json:"phone,omitempty"`
}
