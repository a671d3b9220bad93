package rdb

import (
	"context"

	"Office_Hub/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return mapDBError(r.DB.WithContext(ctx).Create(user).Error)
}

// FindByLogin 用户名或邮箱均可登录
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsUsernameOrEmail 注册前的唯一性检查，分别返回用户名、邮箱是否已被占用
func (r *UserRepository) ExistsUsernameOrEmail(ctx context.Context, username, email string) (bool, bool, error) {
	var rows []model.User
	err := r.DB.WithContext(ctx).Select("username", "email").
		Where("username = ? OR email = ?", username, email).
		Find(&rows).Error
	if err != nil {
		return false, false, err
	}
	var nameTaken, emailTaken bool
	for _, u := range rows {
		nameTaken = nameTaken || u.Username == username
		emailTaken = emailTaken || u.Email == email
	}
	return nameTaken, emailTaken, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, fields map[string]any) error {
	return mapDBError(r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hash).Error
}
