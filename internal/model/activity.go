package model

import "time"

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// ActivityLog 员工变更审计记录，只追加；PublishedAt 为空表示尚未投递到 kafka
type ActivityLog struct {
	ID          uint64     `gorm:"primaryKey"`
	Description string     `gorm:"size:255;not null"`
	Event       string     `gorm:"size:16;not null"` // created / updated / deleted
	SubjectType string     `gorm:"size:64;not null"`
	SubjectID   string     `gorm:"size:36;not null;index"`
	PublishedAt *time.Time `gorm:"index"`
	Retry       int        `gorm:"not null;default:0"`
	CreatedAt   time.Time  `gorm:"index"`
}
