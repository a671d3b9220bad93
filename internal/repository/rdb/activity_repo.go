package rdb

import (
	"context"
	"time"

	"Office_Hub/internal/model"

	"gorm.io/gorm"
)

// ActivityRepository 活动日志表同时充当 outbox：published_at 为空即待投递
type ActivityRepository struct {
	DB *gorm.DB
}

func (r *ActivityRepository) Create(ctx context.Context, a *model.ActivityLog) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

// Latest 最近 n 条，新的在前
func (r *ActivityRepository) Latest(ctx context.Context, n int) ([]model.ActivityLog, error) {
	var rows []model.ActivityLog
	err := r.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(n).Find(&rows).Error
	return rows, err
}

// ListUnpublished outbox 查询，按 id 顺序投递
func (r *ActivityRepository) ListUnpublished(ctx context.Context, batchSize, maxRetry int) ([]model.ActivityLog, error) {
	var rows []model.ActivityLog
	err := r.DB.WithContext(ctx).
		Where("published_at IS NULL AND retry < ?", maxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&rows).Error
	return rows, err
}

func (r *ActivityRepository) MarkPublished(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ActivityLog{}).
		Where("id = ?", id).
		Update("published_at", time.Now()).Error
}

// RetryUpdate 投递失败，重试次数加一
func (r *ActivityRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ActivityLog{}).
		Where("id = ?", id).
		UpdateColumn("retry", gorm.Expr("retry + 1")).Error
}
