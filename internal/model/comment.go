package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36"`
	PostID    string    `gorm:"size:36;not null;index:idx_post_time,priority:1"`
	AuthorID  string    `gorm:"size:36;not null;index"`
	Author    *User     `gorm:"foreignKey:AuthorID"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_post_time,priority:2"`
	UpdatedAt time.Time
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
