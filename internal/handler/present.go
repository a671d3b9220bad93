package handler

import (
	"Office_Hub/internal/model"

	"github.com/gin-gonic/gin"
)

// URLResolver 把存储的相对路径转为绝对地址，pkg.DiskStorage 实现了该接口
type URLResolver interface {
	URL(rel string) string
}

type presenter struct {
	urls URLResolver
}

// url 空路径输出 null
func (p presenter) url(rel string) any {
	if rel == "" {
		return nil
	}
	return p.urls.URL(rel)
}

// user withEmail 为 false 时用于公开主页
func (p presenter) user(u *model.User, withEmail bool) gin.H {
	h := gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"username":   u.Username,
		"phone":      u.Phone,
		"avatar":     p.url(u.Avatar),
		"created_at": u.CreatedAt,
	}
	if withEmail {
		h["email"] = u.Email
	}
	return h
}

func (p presenter) admin(u *model.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"name":     u.Name,
		"username": u.Username,
		"phone":    u.Phone,
		"email":    u.Email,
	}
}

func (p presenter) author(u *model.User) any {
	if u == nil {
		return nil
	}
	return gin.H{"id": u.ID, "username": u.Username, "avatar": p.url(u.Avatar)}
}

func (p presenter) division(d *model.Division) gin.H {
	return gin.H{"id": d.ID, "name": d.Name, "created_at": d.CreatedAt, "updated_at": d.UpdatedAt}
}

func (p presenter) divisions(rows []model.Division) []gin.H {
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, p.division(&rows[i]))
	}
	return out
}

func (p presenter) employee(e *model.Employee) gin.H {
	var division any
	if e.Division != nil {
		division = gin.H{"id": e.Division.ID, "name": e.Division.Name}
	}
	return gin.H{
		"id":       e.ID,
		"image":    p.url(e.Image),
		"name":     e.Name,
		"phone":    e.Phone,
		"division": division,
		"position": e.Position,
	}
}

func (p presenter) employees(rows []model.Employee) []gin.H {
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, p.employee(&rows[i]))
	}
	return out
}

func (p presenter) post(post *model.Post) gin.H {
	return gin.H{
		"id":         post.ID,
		"title":      post.Title,
		"content":    post.Content,
		"category":   post.Category,
		"image":      p.url(post.Image),
		"author_id":  post.AuthorID,
		"author":     p.author(post.Author),
		"created_at": post.CreatedAt,
		"updated_at": post.UpdatedAt,
	}
}

func (p presenter) posts(rows []model.Post) []gin.H {
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, p.post(&rows[i]))
	}
	return out
}

func (p presenter) comment(cm *model.Comment) gin.H {
	return gin.H{
		"id":         cm.ID,
		"post_id":    cm.PostID,
		"content":    cm.Content,
		"author_id":  cm.AuthorID,
		"author":     p.author(cm.Author),
		"created_at": cm.CreatedAt,
		"updated_at": cm.UpdatedAt,
	}
}

func (p presenter) comments(rows []model.Comment) []gin.H {
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, p.comment(&rows[i]))
	}
	return out
}
