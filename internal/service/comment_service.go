package service

import (
	"context"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
)

// CommentNotifier 新评论通知帖子作者
type CommentNotifier interface {
	CommentCreated(post *model.Post, commenter pkg.Identity, cm *model.Comment)
}

type CommentService struct {
	repo     CommentRepository
	posts    PostRepository
	notifier CommentNotifier
}

// NewCommentService notifier 可为 nil
func NewCommentService(repo CommentRepository, posts PostRepository, notifier CommentNotifier) *CommentService {
	return &CommentService{repo: repo, posts: posts, notifier: notifier}
}

func validateComment(raw string) (string, error) {
	fe := fieldErrors{}
	content := fe.text("content", raw, 1, 2000)
	return content, fe.err()
}

// ListByPost 帖子不存在时返回 404
func (s *CommentService) ListByPost(ctx context.Context, postID string, q pkg.PageQuery) ([]model.Comment, *pkg.Pagination, error) {
	if _, err := s.findPost(ctx, postID); err != nil {
		return nil, nil, err
	}
	rows, total, err := s.repo.ListByPost(ctx, postID, q)
	if err != nil {
		return nil, nil, err
	}
	return rows, pkg.NewPagination(total, q, len(rows)), nil
}

func (s *CommentService) Get(ctx context.Context, id string) (*model.Comment, error) {
	if !validID(id) {
		return nil, pkg.NotFound("comment not found")
	}
	cm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkg.NotFound("comment not found")
		}
		return nil, err
	}
	return cm, nil
}

func (s *CommentService) Create(ctx context.Context, author pkg.Identity, postID, rawContent string) (*model.Comment, error) {
	content, err := validateComment(rawContent)
	if err != nil {
		return nil, err
	}
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	cm := &model.Comment{PostID: post.ID, AuthorID: author.ID, Content: content}
	if err = s.repo.Create(ctx, cm); err != nil {
		return nil, err
	}
	created, err := s.repo.FindByID(ctx, cm.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && post.AuthorID != author.ID {
		s.notifier.CommentCreated(post, author, created)
	}
	return created, nil
}

// Update cm 由归属校验中间件加载
func (s *CommentService) Update(ctx context.Context, cm *model.Comment, rawContent string) (*model.Comment, error) {
	content, err := validateComment(rawContent)
	if err != nil {
		return nil, err
	}
	cm.Content = content
	if err = s.repo.Update(ctx, cm); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, cm.ID)
}

func (s *CommentService) Delete(ctx context.Context, cm *model.Comment) error {
	affected, err := s.repo.Delete(ctx, cm.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkg.NotFound("comment not found")
	}
	return nil
}

func (s *CommentService) findPost(ctx context.Context, postID string) (*model.Post, error) {
	if !validID(postID) {
		return nil, pkg.NotFound("post not found")
	}
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkg.NotFound("post not found")
		}
		return nil, err
	}
	return p, nil
}
