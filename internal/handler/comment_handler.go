package handler

import (
	"net/http"

	"Office_Hub/internal/middleware"
	"Office_Hub/internal/pkg"
	"Office_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	presenter
	svc *service.CommentService
}

type CommentReq struct {
	Content string `json:"content" form:"content" binding:"required"`
}

func NewCommentHandler(svc *service.CommentService, urls URLResolver) *CommentHandler {
	return &CommentHandler{presenter: presenter{urls: urls}, svc: svc}
}

// ListByPost 最早的评论在前
func (h *CommentHandler) ListByPost(c *gin.Context) {
	q := pkg.ParsePageQuery(c, pkg.MaxPerPageBlog)
	rows, page, err := h.svc.ListByPost(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Comments retrieved", gin.H{"comments": h.comments(rows)}, page)
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req CommentReq
	if err := c.ShouldBind(&req); err != nil {
		c.Error(pkg.BindError(err))
		return
	}

	id, _ := middleware.CurrentIdentity(c)
	cm, err := h.svc.Create(c.Request.Context(), id, c.Param("id"), req.Content)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusCreated, "Comment created", gin.H{"comment": h.comment(cm)}, nil)
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req CommentReq
	if err := c.ShouldBind(&req); err != nil {
		c.Error(pkg.BindError(err))
		return
	}

	cm, err := h.svc.Update(c.Request.Context(), middleware.LoadedComment(c), req.Content)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Comment updated", gin.H{"comment": h.comment(cm)}, nil)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.LoadedComment(c)); err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Comment deleted", nil, nil)
}
