package memory

import (
	"context"
	"sort"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
)

type CommentRepository struct{ s *Store }

func (r *CommentRepository) withAuthor(cm model.Comment) model.Comment {
	if u, ok := r.s.users[cm.AuthorID]; ok {
		cm.Author = &u
	} else {
		cm.Author = nil
	}
	return cm
}

// ListByPost 按创建时间升序
func (r *CommentRepository) ListByPost(_ context.Context, postID string, q pkg.PageQuery) ([]model.Comment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []model.Comment
	for _, cm := range r.s.comments {
		if cm.PostID == postID {
			rows = append(rows, r.withAuthor(cm))
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})
	return page(rows, q), int64(len(rows)), nil
}

func (r *CommentRepository) FindByID(_ context.Context, id string) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cm, ok := r.s.comments[id]
	if !ok {
		return nil, errNotFound
	}
	cm = r.withAuthor(cm)
	return &cm, nil
}

func (r *CommentRepository) Create(_ context.Context, cm *model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[cm.PostID]; !ok {
		return pkg.Conflict("referenced resource does not exist")
	}
	cm.ID = newID(cm.ID)
	cm.CreatedAt = r.s.now()
	cm.UpdatedAt = cm.CreatedAt
	stored := *cm
	stored.Author = nil
	r.s.comments[cm.ID] = stored
	return nil
}

func (r *CommentRepository) Update(_ context.Context, cm *model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.comments[cm.ID]
	if !ok {
		return nil
	}
	cur.Content = cm.Content
	cur.UpdatedAt = r.s.now()
	r.s.comments[cm.ID] = cur
	return nil
}

func (r *CommentRepository) Delete(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return 0, nil
	}
	delete(r.s.comments, id)
	return 1, nil
}
