package handler

import (
	"mime/multipart"
	"net/http"

	"Office_Hub/internal/middleware"
	"Office_Hub/internal/pkg"
	"Office_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	presenter
	svc *service.UserService
}

// RegisterReq 注册请求体
type RegisterReq struct {
	Name     string `json:"name" binding:"max=255"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type UpdateMeReq struct {
	Name string `json:"name" binding:"required,max=255"`
}

type AvatarReq struct {
	Avatar *multipart.FileHeader `form:"avatar" binding:"required"`
}

func NewUserHandler(svc *service.UserService, urls URLResolver) *UserHandler {
	return &UserHandler{presenter: presenter{urls: urls}, svc: svc}
}

// Register 注册接口
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(pkg.BindError(err))
		return
	}

	res, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	pkg.Success(c, http.StatusCreated, "Registration successful", gin.H{
		"user":          h.user(res.User, true),
		"token":         res.Token.AccessToken,
		"refresh_token": res.Token.RefreshToken,
	}, nil)
}

// Login 登录接口
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(pkg.BindError(err))
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	pkg.Success(c, http.StatusOK, "Login successful", gin.H{
		"token":         res.Token.AccessToken,
		"refresh_token": res.Token.RefreshToken,
		"admin":         h.admin(res.User),
	}, nil)
}

func (h *UserHandler) Logout(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)
	if err := h.svc.Logout(c.Request.Context(), id.ID); err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Logout successful", nil, nil)
}

// TokenRefresh 利用refresh来更新access
func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(pkg.BindError(err))
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.Error(err)
		return
	}

	pkg.Success(c, http.StatusOK, "Token refreshed", gin.H{
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, nil)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(pkg.BindError(err))
		return
	}

	id, _ := middleware.CurrentIdentity(c)
	if err := h.svc.ChangePassword(c.Request.Context(), id.ID, req.OldPassword, req.NewPassword); err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Password changed, please sign in again", nil, nil)
}

func (h *UserHandler) Me(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)
	user, posts, err := h.svc.Me(c.Request.Context(), id.ID)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Profile retrieved", gin.H{
		"user":  h.user(user, true),
		"posts": h.posts(posts),
	}, nil)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(pkg.BindError(err))
		return
	}

	id, _ := middleware.CurrentIdentity(c)
	user, err := h.svc.UpdateName(c.Request.Context(), id.ID, req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Profile updated", gin.H{"user": h.user(user, true)}, nil)
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	var req AvatarReq
	if err := c.ShouldBind(&req); err != nil {
		c.Error(pkg.BindError(err))
		return
	}

	id, _ := middleware.CurrentIdentity(c)
	user, err := h.svc.UpdateAvatar(c.Request.Context(), id.ID, req.Avatar)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Avatar updated", gin.H{"user": h.user(user, true)}, nil)
}

// Profile 公开主页，不含邮箱
func (h *UserHandler) Profile(c *gin.Context) {
	user, posts, err := h.svc.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Profile retrieved", gin.H{
		"user":  h.user(user, false),
		"posts": h.posts(posts),
	}, nil)
}
