package handler

import (
	"mime/multipart"
	"net/http"

	"Office_Hub/internal/middleware"
	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
	"Office_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	presenter
	svc *service.PostService
}

// PostForm 支持 multipart（可带图片）和 JSON 两种提交方式
type PostForm struct {
	Title    string                `json:"title" form:"title"`
	Content  string                `json:"content" form:"content"`
	Category string                `json:"category" form:"category"`
	Image    *multipart.FileHeader `json:"-" form:"image"`
}

func (f PostForm) input() service.PostInput {
	return service.PostInput{Title: f.Title, Content: f.Content, Category: f.Category}
}

func NewPostHandler(svc *service.PostService, urls URLResolver) *PostHandler {
	return &PostHandler{presenter: presenter{urls: urls}, svc: svc}
}

// List 公开接口；q 匹配标题、正文和作者用户名
func (h *PostHandler) List(c *gin.Context) {
	q := pkg.ParsePageQuery(c, pkg.MaxPerPageBlog)
	f := model.PostFilter{Query: c.Query("q"), AuthorID: c.Query("author"), Category: c.Query("category")}
	rows, page, err := h.svc.List(c.Request.Context(), f, q)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Posts retrieved", gin.H{"posts": h.posts(rows)}, page)
}

func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Post retrieved", gin.H{"post": h.post(p)}, nil)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		c.Error(pkg.BindError(err))
		return
	}

	id, _ := middleware.CurrentIdentity(c)
	p, err := h.svc.Create(c.Request.Context(), id, form.input(), form.Image)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusCreated, "Post created", gin.H{"post": h.post(p)}, nil)
}

// UpdatePost 帖子已由 RequirePostOwner 加载并校验
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		c.Error(pkg.BindError(err))
		return
	}

	p, err := h.svc.Update(c.Request.Context(), middleware.LoadedPost(c), form.input(), form.Image)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Post updated", gin.H{"post": h.post(p)}, nil)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.LoadedPost(c)); err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Post deleted", nil, nil)
}
