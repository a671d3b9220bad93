package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:255;not null;default:''"`
	Username  string `gorm:"uniqueIndex;size:32;not null"`
	Email     string `gorm:"uniqueIndex;size:64;not null"`
	Phone     string `gorm:"size:30;not null;default:''"`
	Password  string `gorm:"size:255;not null"`
	Avatar    string `gorm:"size:255;not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
