package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Division struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:255;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d *Division) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// DivisionCount 每个部门的员工数量（仪表盘图表）
type DivisionCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
