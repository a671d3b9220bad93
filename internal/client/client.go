package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// APIError 服务端返回的错误信封
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Pagination struct {
	Total       int64  `json:"total"`
	PerPage     int    `json:"per_page"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	From        *int64 `json:"from"`
	To          *int64 `json:"to"`
}

type envelope struct {
	Status     string              `json:"status"`
	Message    string              `json:"message"`
	Data       json.RawMessage     `json:"data"`
	Pagination *Pagination         `json:"pagination"`
	Errors     map[string][]string `json:"errors"`
}

type Client struct {
	http    *resty.Client
	session *Session
}

// New session 为 nil 时新建一个；任何 401 响应都会清空会话
func New(baseURL string, session *Session) *Client {
	if session == nil {
		session = &Session{}
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	rc.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() == http.StatusUnauthorized {
			session.Clear()
		}
		return nil
	})
	return &Client{http: rc, session: session}
}

func (c *Client) Session() *Session {
	return c.session
}

type Admin struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	Admin        Admin  `json:"admin"`
}

// Login 成功后写入会话
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"username": username, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/api/login", nil, body, &out); err != nil {
		return nil, err
	}
	c.session.Set(out.Token, out.RefreshToken)
	return &out, nil
}

// Logout 无论服务端结果如何都清空本地会话
func (c *Client) Logout(ctx context.Context) error {
	if !c.session.Authenticated() {
		return nil
	}
	_, err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil, nil)
	c.session.Clear()
	return err
}

// Refresh 用会话中的 refresh token 换新 token
func (c *Client) Refresh(ctx context.Context) error {
	rt := c.session.RefreshToken()
	if rt == "" {
		return ErrNotAuthenticated
	}
	var out struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/token/refresh", nil, map[string]string{"refresh_token": rt}, &out); err != nil {
		return err
	}
	c.session.Set(out.Token, out.RefreshToken)
	return nil
}

type Division struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListOptions struct {
	Page    int
	PerPage int
	Filters map[string]string
}

func (o ListOptions) query() url.Values {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(o.PerPage))
	}
	for k, val := range o.Filters {
		v.Set(k, val)
	}
	return v
}

func (c *Client) ListDivisions(ctx context.Context, opts ListOptions) ([]Division, *Pagination, error) {
	var out struct {
		Divisions []Division `json:"divisions"`
	}
	page, err := c.do(ctx, http.MethodGet, "/api/divisions", opts.query(), nil, &out)
	if err != nil {
		return nil, nil, err
	}
	return out.Divisions, page, nil
}

func (c *Client) CreateDivision(ctx context.Context, name string) (*Division, error) {
	var out struct {
		Division Division `json:"division"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/divisions", nil, map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out.Division, nil
}

type Post struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	AuthorID string `json:"author_id"`
}

func (c *Client) ListPosts(ctx context.Context, opts ListOptions) ([]Post, *Pagination, error) {
	var out struct {
		Posts []Post `json:"posts"`
	}
	page, err := c.do(ctx, http.MethodGet, "/api/posts", opts.query(), nil, &out)
	if err != nil {
		return nil, nil, err
	}
	return out.Posts, page, nil
}

func (c *Client) CreatePost(ctx context.Context, title, content, category string) (*Post, error) {
	var out struct {
		Post Post `json:"post"`
	}
	body := map[string]string{"title": title, "content": content, "category": category}
	if _, err := c.do(ctx, http.MethodPost, "/api/posts", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil, nil)
	return err
}

// do 发送 JSON 请求并解开响应信封
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, data any) (*Pagination, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if token := c.session.Token(); token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err = json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode() >= 400 {
		return nil, &APIError{Status: resp.StatusCode(), Message: env.Message, Fields: env.Errors}
	}
	if data != nil && len(env.Data) > 0 {
		if err = json.Unmarshal(env.Data, data); err != nil {
			return nil, fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}
	return env.Pagination, nil
}
