package rdb

import (
	"context"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

// ListByPost 按创建时间升序分页
func (r *CommentRepository) ListByPost(ctx context.Context, postID string, q pkg.PageQuery) ([]model.Comment, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Comment
	err := tx.Preload("Author").
		Order("created_at ASC").Order("id ASC").
		Offset(q.Offset()).Limit(q.PerPage).
		Find(&rows).Error
	return rows, total, err
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	var cm model.Comment
	if err := r.DB.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&cm).Error; err != nil {
		return nil, err
	}
	return &cm, nil
}

func (r *CommentRepository) Create(ctx context.Context, cm *model.Comment) error {
	return mapDBError(r.DB.WithContext(ctx).Omit("Author").Create(cm).Error)
}

func (r *CommentRepository) Update(ctx context.Context, cm *model.Comment) error {
	return r.DB.WithContext(ctx).Model(&model.Comment{ID: cm.ID}).Update("content", cm.Content).Error
}

func (r *CommentRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{})
	return res.RowsAffected, res.Error
}
