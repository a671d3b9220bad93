package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID         string    `gorm:"primaryKey;size:36"`
	DivisionID string    `gorm:"size:36;not null;index"`
	Division   *Division `gorm:"foreignKey:DivisionID;constraint:OnDelete:RESTRICT"`
	Name       string    `gorm:"size:255;not null;index"`
	Phone      string    `gorm:"size:30;not null"`
	Position   string    `gorm:"size:255;not null"`
	Image      string    `gorm:"size:255;not null;default:''"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (e *Employee) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
