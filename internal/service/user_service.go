package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"regexp"
	"strings"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	validate        = validator.New()
)

type UserService struct {
	repo     UserRepository
	posts    PostRepository
	sessions SessionStore
	tokens   *pkg.TokenManager
	images   ImageStore
}

func NewUserService(repo UserRepository, posts PostRepository, sessions SessionStore, tokens *pkg.TokenManager, images ImageStore) *UserService {
	return &UserService{
		repo:     repo,
		posts:    posts,
		sessions: sessions,
		tokens:   tokens,
		images:   images,
	}
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// AuthResult 登录/注册成功后返回的用户与 token
type AuthResult struct {
	User  *model.User
	Token *pkg.Pair
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	fe := fieldErrors{}
	name := fe.text("name", in.Name, 0, 255)
	username := strings.TrimSpace(in.Username)
	if !usernamePattern.MatchString(username) {
		fe.add("username", "username must be 3-30 letters, digits or underscores")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if validate.Var(email, "required,email,max=64") != nil {
		fe.add("email", "email must be a valid email address")
	}
	if n := len(in.Password); n < 8 || n > 72 {
		fe.add("password", "password must be 8-72 characters")
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	nameTaken, emailTaken, err := s.repo.ExistsUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if nameTaken {
		return nil, pkg.Conflict("username already taken")
	}
	if emailTaken {
		return nil, pkg.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = username
	}
	user := &model.User{
		Name:     name,
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err = s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: pair}, nil
}

// Login 用户名或邮箱 + 密码；失败统一返回 401，不区分用户不存在和密码错误
func (s *UserService) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	user, err := s.repo.FindByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if isNotFound(err) {
			return nil, pkg.Unauthorized("invalid username or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.Unauthorized("invalid username or password")
	}

	// 将token写入redis
	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: pair}, nil
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Delete(ctx, userID)
}

// Refresh 利用 refresh token 换一对新 token；jti 必须是会话中登记的那一个，
// 登出、改密或已经换过一次的 refresh token 都不再可用
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, pkg.Unauthorized("invalid or expired refresh token")
	}

	current, err := s.sessions.GetRefresh(ctx, claims.UserID)
	if err != nil && !errors.Is(err, pkg.ErrSessionNotFound) {
		return nil, err
	}
	if current == "" || current != claims.ID {
		return nil, pkg.Unauthorized("refresh token has been revoked")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkg.Unauthorized("invalid or expired refresh token")
		}
		return nil, err
	}
	return s.issue(ctx, user)
}

// Authenticate 校验 access token：签名、有效期、redis 中的当前会话、用户仍然存在
func (s *UserService) Authenticate(ctx context.Context, token string) (pkg.Identity, error) {
	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		return pkg.Identity{}, pkg.Unauthorized("invalid or expired token")
	}

	// 会话存储故障按服务端错误处理，不当作凭证失效
	current, err := s.sessions.Get(ctx, claims.UserID)
	if err != nil && !errors.Is(err, pkg.ErrSessionNotFound) {
		return pkg.Identity{}, err
	}
	if current == "" || current != token {
		return pkg.Identity{}, pkg.Unauthorized("session expired or signed in elsewhere")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return pkg.Identity{}, pkg.Unauthorized("user no longer exists")
		}
		return pkg.Identity{}, err
	}

	// 校验通过后更新过期时间
	if err = s.sessions.Extend(ctx, user.ID, s.tokens.AccessTTL()); err != nil {
		log.Printf("extend session user=%s: %v", user.ID, err)
	}
	return pkg.Identity{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// ChangePassword 登录态修改密码，成功后需要重新登录
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if n := len(newPassword); n < 8 || n > 72 {
		return pkg.FieldError("new_password", "new_password must be 8-72 characters")
	}
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return pkg.FieldError("old_password", "old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err = s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	return s.Logout(ctx, user.ID)
}

// Me 当前用户及其帖子
func (s *UserService) Me(ctx context.Context, userID string) (*model.User, []model.Post, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.posts.ListByAuthor(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}

// Profile 公开主页，非法 id 按不存在处理
func (s *UserService) Profile(ctx context.Context, userID string) (*model.User, []model.Post, error) {
	if !validID(userID) {
		return nil, nil, pkg.NotFound("user not found")
	}
	return s.Me(ctx, userID)
}

func (s *UserService) UpdateName(ctx context.Context, userID, rawName string) (*model.User, error) {
	fe := fieldErrors{}
	name := fe.text("name", rawName, 1, 255)
	if err := fe.err(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProfile(ctx, userID, map[string]any{"name": name}); err != nil {
		return nil, err
	}
	return s.findUser(ctx, userID)
}

// UpdateAvatar 先写新文件、更新记录，再删除旧文件
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, fh *multipart.FileHeader) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rel, err := saveImage(s.images, fh, "avatars", "avatar")
	if err != nil {
		return nil, err
	}
	if err = s.repo.UpdateProfile(ctx, user.ID, map[string]any{"avatar": rel}); err != nil {
		_ = s.images.Delete(rel)
		return nil, err
	}
	if err = s.images.Delete(user.Avatar); err != nil {
		log.Printf("delete old avatar %s: %v", user.Avatar, err)
	}
	user.Avatar = rel
	return user, nil
}

// EnsureAdmin 启动时创建管理员账号（已存在则跳过）
func (s *UserService) EnsureAdmin(ctx context.Context, username, password, email string) error {
	if username == "" {
		return nil
	}
	_, err := s.repo.FindByLogin(ctx, username)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if email == "" {
		email = username + "@localhost"
	}
	admin := &model.User{
		Name:     username,
		Username: username,
		Email:    strings.ToLower(email),
		Password: string(hash),
	}
	if err = s.repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("admin account %q created", username)
	return nil
}

func (s *UserService) findUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkg.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) issue(ctx context.Context, user *model.User) (*pkg.Pair, error) {
	pair, err := s.tokens.GeneratePair(pkg.Identity{ID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		return nil, err
	}
	if err = s.sessions.Save(ctx, user.ID, pair.AccessToken, s.tokens.AccessTTL()); err != nil {
		return nil, err
	}
	if err = s.sessions.SaveRefresh(ctx, user.ID, pair.RefreshID, s.tokens.RefreshTTL()); err != nil {
		return nil, err
	}
	return pair, nil
}

// saveImage 上传文件校验失败时转换为对应字段的校验错误
func saveImage(store ImageStore, fh *multipart.FileHeader, dir, field string) (string, error) {
	rel, err := store.SaveImage(fh, dir)
	switch {
	case errors.Is(err, pkg.ErrFileTooLarge):
		return "", pkg.FieldError(field, fmt.Sprintf("%s must not exceed 5 MB", field))
	case errors.Is(err, pkg.ErrNotImage):
		return "", pkg.FieldError(field, fmt.Sprintf("%s must be an image", field))
	case err != nil:
		return "", err
	}
	return rel, nil
}
