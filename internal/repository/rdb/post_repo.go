package rdb

import (
	"context"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

// List 按创建时间倒序分页；Query 匹配标题、正文或作者用户名
func (r *PostRepository) List(ctx context.Context, f model.PostFilter, q pkg.PageQuery) ([]model.Post, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Post{})
	if f.Query != "" {
		pattern := pkg.LikePattern(f.Query)
		authors := r.DB.Model(&model.User{}).Select("id").Where(likeExpr("username"), pattern)
		tx = tx.Where(
			r.DB.Where(likeExpr("title"), pattern).
				Or(likeExpr("content"), pattern).
				Or("author_id IN (?)", authors),
		)
	}
	if f.AuthorID != "" {
		tx = tx.Where("author_id = ?", f.AuthorID)
	}
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Post
	err := tx.Preload("Author").
		Order("created_at DESC").Order("id DESC").
		Offset(q.Offset()).Limit(q.PerPage).
		Find(&rows).Error
	return rows, total, err
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.DB.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	var rows []model.Post
	err := r.DB.WithContext(ctx).Where("author_id = ?", authorID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *PostRepository) Create(ctx context.Context, p *model.Post) error {
	return mapDBError(r.DB.WithContext(ctx).Omit("Author").Create(p).Error)
}

func (r *PostRepository) Update(ctx context.Context, p *model.Post) error {
	err := r.DB.WithContext(ctx).Model(&model.Post{ID: p.ID}).Updates(map[string]any{
		"title":    p.Title,
		"content":  p.Content,
		"category": p.Category,
		"image":    p.Image,
	}).Error
	return mapDBError(err)
}

// DeleteWithComments 同一事务内删除评论和帖子
func (r *PostRepository) DeleteWithComments(ctx context.Context, id string) (int64, error) {
	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}
