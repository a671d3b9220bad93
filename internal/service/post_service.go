package service

import (
	"context"
	"log"
	"mime/multipart"
	"strings"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
)

const postDir = "posts"

type PostService struct {
	repo   PostRepository
	images ImageStore
}

func NewPostService(repo PostRepository, images ImageStore) *PostService {
	return &PostService{repo: repo, images: images}
}

type PostInput struct {
	Title    string
	Content  string
	Category string
}

func (in PostInput) validate() (PostInput, error) {
	fe := fieldErrors{}
	out := PostInput{
		Title:    fe.text("title", in.Title, 3, 120),
		Content:  fe.text("content", in.Content, 3, 0),
		Category: fe.text("category", in.Category, 0, 40),
	}
	return out, fe.err()
}

func (s *PostService) List(ctx context.Context, f model.PostFilter, q pkg.PageQuery) ([]model.Post, *pkg.Pagination, error) {
	f.Query = strings.TrimSpace(f.Query)
	if f.AuthorID != "" && !validID(f.AuthorID) {
		// 作者 id 非法时不可能有匹配结果
		return []model.Post{}, pkg.NewPagination(0, q, 0), nil
	}
	rows, total, err := s.repo.List(ctx, f, q)
	if err != nil {
		return nil, nil, err
	}
	return rows, pkg.NewPagination(total, q, len(rows)), nil
}

// Get 非法 id 与不存在同样返回 404
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	if !validID(id) {
		return nil, pkg.NotFound("post not found")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkg.NotFound("post not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *PostService) Create(ctx context.Context, author pkg.Identity, in PostInput, image *multipart.FileHeader) (*model.Post, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	p := &model.Post{
		AuthorID: author.ID,
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
	}
	if image != nil {
		if p.Image, err = saveImage(s.images, image, postDir, "image"); err != nil {
			return nil, err
		}
	}
	if err = s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, p.ID)
}

// Update p 由归属校验中间件加载，调用方已确认是作者本人
func (s *PostService) Update(ctx context.Context, p *model.Post, in PostInput, image *multipart.FileHeader) (*model.Post, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	p.Title = in.Title
	p.Content = in.Content
	p.Category = in.Category

	old := p.Image
	if image != nil {
		rel, err := saveImage(s.images, image, postDir, "image")
		if err != nil {
			return nil, err
		}
		p.Image = rel
	}
	if err = s.repo.Update(ctx, p); err != nil {
		if p.Image != old {
			_ = s.images.Delete(p.Image)
		}
		return nil, err
	}
	// 记录已指向新图，旧文件可以删了
	if p.Image != old {
		if err = s.images.Delete(old); err != nil {
			log.Printf("delete post image %s: %v", old, err)
		}
	}
	return s.repo.FindByID(ctx, p.ID)
}

// Delete 事务内删除帖子及其评论，提交后再删图片
func (s *PostService) Delete(ctx context.Context, p *model.Post) error {
	affected, err := s.repo.DeleteWithComments(ctx, p.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkg.NotFound("post not found")
	}
	if err = s.images.Delete(p.Image); err != nil {
		log.Printf("delete post image %s: %v", p.Image, err)
	}
	return nil
}

func (s *PostService) ImageURL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.images.URL(rel)
}
