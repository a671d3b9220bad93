package middleware

import (
	"context"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextPostKey    = "post"
	ContextCommentKey = "comment"
)

type PostLoader interface {
	Get(ctx context.Context, id string) (*model.Post, error)
}

type CommentLoader interface {
	Get(ctx context.Context, id string) (*model.Comment, error)
}

// RequirePostOwner 加载 :id 对应的帖子，非作者返回 403；通过后帖子挂到上下文
func RequirePostOwner(posts PostLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.Error(pkg.Unauthorized("unauthorized"))
			c.Abort()
			return
		}
		post, err := posts.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		if post.AuthorID != id.ID {
			c.Error(pkg.Forbidden("you are not the author of this post"))
			c.Abort()
			return
		}
		c.Set(ContextPostKey, post)
		c.Next()
	}
}

// RequireCommentOwner param 为评论 id 所在的路由参数名
func RequireCommentOwner(comments CommentLoader, param string) gin.HandlerFunc {
	return requireComment(comments, param, "")
}

// RequireNestedCommentOwner /posts/:id/comments/:commentId，评论必须属于该帖子，否则 404
func RequireNestedCommentOwner(comments CommentLoader) gin.HandlerFunc {
	return requireComment(comments, "commentId", "id")
}

func requireComment(comments CommentLoader, param, postParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.Error(pkg.Unauthorized("unauthorized"))
			c.Abort()
			return
		}
		cm, err := comments.Get(c.Request.Context(), c.Param(param))
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		if postParam != "" && cm.PostID != c.Param(postParam) {
			c.Error(pkg.NotFound("comment not found"))
			c.Abort()
			return
		}
		if cm.AuthorID != id.ID {
			c.Error(pkg.Forbidden("you are not the author of this comment"))
			c.Abort()
			return
		}
		c.Set(ContextCommentKey, cm)
		c.Next()
	}
}

// LoadedPost 取 RequirePostOwner 挂载的帖子
func LoadedPost(c *gin.Context) *model.Post {
	v, _ := c.Get(ContextPostKey)
	p, _ := v.(*model.Post)
	return p
}

// LoadedComment 取评论归属校验挂载的评论
func LoadedComment(c *gin.Context) *model.Comment {
	v, _ := c.Get(ContextCommentKey)
	cm, _ := v.(*model.Comment)
	return cm
}
