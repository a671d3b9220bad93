package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        string    `gorm:"primaryKey;size:36"`
	AuthorID  string    `gorm:"size:36;not null;index:idx_author_time,priority:1"`
	Author    *User     `gorm:"foreignKey:AuthorID"`
	Title     string    `gorm:"size:120;not null"`
	Content   string    `gorm:"type:text;not null"`
	Category  string    `gorm:"size:40;not null;default:''"`
	Image     string    `gorm:"size:255;not null;default:''"`
	CreatedAt time.Time `gorm:"index;index:idx_author_time,priority:2"`
	UpdatedAt time.Time
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
