package service

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 各实体的持久化接口：repository/rdb 为数据库实现，repository/memory 为内存实现

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	ExistsUsernameOrEmail(ctx context.Context, username, email string) (bool, bool, error)
	UpdateProfile(ctx context.Context, id string, fields map[string]any) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

type DivisionRepository interface {
	List(ctx context.Context, f model.DivisionFilter, q pkg.PageQuery) ([]model.Division, int64, error)
	FindByID(ctx context.Context, id string) (*model.Division, error)
	Create(ctx context.Context, d *model.Division) error
	Update(ctx context.Context, d *model.Division) error
	Delete(ctx context.Context, id string) (int64, error)
	Count(ctx context.Context) (int64, error)
	EmployeeCounts(ctx context.Context) ([]model.DivisionCount, error)
}

type EmployeeRepository interface {
	List(ctx context.Context, f model.EmployeeFilter, q pkg.PageQuery) ([]model.Employee, int64, error)
	FindByID(ctx context.Context, id string) (*model.Employee, error)
	Create(ctx context.Context, e *model.Employee) error
	Update(ctx context.Context, e *model.Employee) error
	Delete(ctx context.Context, id string) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByDivision(ctx context.Context, divisionID string) (int64, error)
	All(ctx context.Context) ([]model.Employee, error)
}

type PostRepository interface {
	List(ctx context.Context, f model.PostFilter, q pkg.PageQuery) ([]model.Post, int64, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error)
	Create(ctx context.Context, p *model.Post) error
	Update(ctx context.Context, p *model.Post) error
	DeleteWithComments(ctx context.Context, id string) (int64, error)
}

type CommentRepository interface {
	ListByPost(ctx context.Context, postID string, q pkg.PageQuery) ([]model.Comment, int64, error)
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	Create(ctx context.Context, cm *model.Comment) error
	Update(ctx context.Context, cm *model.Comment) error
	Delete(ctx context.Context, id string) (int64, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, a *model.ActivityLog) error
	Latest(ctx context.Context, n int) ([]model.ActivityLog, error)
	ListUnpublished(ctx context.Context, batchSize, maxRetry int) ([]model.ActivityLog, error)
	MarkPublished(ctx context.Context, id uint64) error
	RetryUpdate(ctx context.Context, id uint64) error
}

type ScoreRepository interface {
	ListByMateri(ctx context.Context, materiUjiID int) ([]model.Score, error)
}

// SessionStore 服务端登录态（每个用户一个有效 access token 和一个 refresh jti）
// 不存在时返回 pkg.ErrSessionNotFound；Delete 同时吊销两者
type SessionStore interface {
	Save(ctx context.Context, userID, token string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	SaveRefresh(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	GetRefresh(ctx context.Context, userID string) (string, error)
	Extend(ctx context.Context, userID string, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Locker interface {
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}

// ImageStore 上传文件存储，记录中只保存相对路径
type ImageStore interface {
	SaveImage(fh *multipart.FileHeader, dir string) (string, error)
	Delete(rel string) error
	URL(rel string) string
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// validID 非法 UUID 直接按不存在处理
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
