package memory

import (
	"context"
	"time"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
)

type PostRepository struct{ s *Store }

// withAuthor 模拟 Preload("Author")，调用方需持有锁
func (r *PostRepository) withAuthor(p model.Post) model.Post {
	if u, ok := r.s.users[p.AuthorID]; ok {
		p.Author = &u
	} else {
		p.Author = nil
	}
	return p
}

func (r *PostRepository) sorted(keep func(model.Post) bool) []model.Post {
	var rows []model.Post
	for _, p := range r.s.posts {
		p = r.withAuthor(p)
		if keep(p) {
			rows = append(rows, p)
		}
	}
	newestFirst(rows,
		func(p model.Post) time.Time { return p.CreatedAt },
		func(p model.Post) string { return p.ID })
	return rows
}

func (r *PostRepository) List(_ context.Context, f model.PostFilter, q pkg.PageQuery) ([]model.Post, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := r.sorted(func(p model.Post) bool {
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			return false
		}
		if f.Category != "" && p.Category != f.Category {
			return false
		}
		if f.Query == "" {
			return true
		}
		return contains(p.Title, f.Query) || contains(p.Content, f.Query) ||
			(p.Author != nil && contains(p.Author.Username, f.Query))
	})
	return page(rows, q), int64(len(rows)), nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, errNotFound
	}
	p = r.withAuthor(p)
	return &p, nil
}

func (r *PostRepository) ListByAuthor(_ context.Context, authorID string) ([]model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := r.sorted(func(p model.Post) bool { return p.AuthorID == authorID })
	for i := range rows {
		rows[i].Author = nil
	}
	if rows == nil {
		rows = []model.Post{}
	}
	return rows, nil
}

func (r *PostRepository) Create(_ context.Context, p *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = newID(p.ID)
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	stored.Author = nil
	r.s.posts[p.ID] = stored
	return nil
}

func (r *PostRepository) Update(_ context.Context, p *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.posts[p.ID]
	if !ok {
		return nil
	}
	cur.Title = p.Title
	cur.Content = p.Content
	cur.Category = p.Category
	cur.Image = p.Image
	cur.UpdatedAt = r.s.now()
	r.s.posts[p.ID] = cur
	return nil
}

func (r *PostRepository) DeleteWithComments(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for cid, cm := range r.s.comments {
		if cm.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	if _, ok := r.s.posts[id]; !ok {
		return 0, nil
	}
	delete(r.s.posts, id)
	return 1, nil
}
