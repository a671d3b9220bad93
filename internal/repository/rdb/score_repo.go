package rdb

import (
	"context"

	"Office_Hub/internal/model"

	"gorm.io/gorm"
)

type ScoreRepository struct {
	DB *gorm.DB
}

// ListByMateri 某一考试类型的全部成绩，按姓名排序
func (r *ScoreRepository) ListByMateri(ctx context.Context, materiUjiID int) ([]model.Score, error) {
	var rows []model.Score
	err := r.DB.WithContext(ctx).
		Where("materi_uji_id = ?", materiUjiID).
		Order("nama ASC").Order("nisn ASC").Order("id ASC").
		Find(&rows).Error
	return rows, err
}
