package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Office_Hub/internal/pkg"
	"Office_Hub/internal/repository/memory"
	"Office_Hub/internal/router"
	"Office_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.New()
	kv := memory.NewKV()
	storage := pkg.NewDiskStorage(t.TempDir(), "http://test.local")
	tokens := pkg.NewTokenManager("client-secret", "", time.Hour, 2*time.Hour)

	users := service.NewUserService(store.Users(), store.Posts(), kv, tokens, storage)
	require.NoError(t, users.EnsureAdmin(context.Background(), "admin", "pastibisa", ""))
	dashboard := service.NewDashboardService(store.Employees(), store.Divisions(), store.Activities(), kv.Cache())

	srv := httptest.NewServer(router.InitRouter(router.Deps{
		Users:     users,
		Divisions: service.NewDivisionService(store.Divisions(), store.Employees(), dashboard.Invalidate),
		Employees: service.NewEmployeeService(store.Employees(), store.Divisions(), storage),
		Posts:     service.NewPostService(store.Posts(), storage),
		Comments:  service.NewCommentService(store.Comments(), store.Posts(), nil),
		Dashboard: dashboard,
		Reports:   service.NewReportService(store.Scores(), kv.Cache(), kv.Locker()),
		Storage:   storage,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientSessionLifecycle(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/", nil)
	ctx := context.Background()

	_, _, err := c.ListDivisions(ctx, ListOptions{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	res, err := c.Login(ctx, "admin", "pastibisa")
	require.NoError(t, err)
	assert.Equal(t, "admin", res.Admin.Username)
	assert.True(t, c.Session().Authenticated())

	d, err := c.CreateDivision(ctx, "Finance")
	require.NoError(t, err)
	assert.Equal(t, "Finance", d.Name)

	rows, page, err := c.ListDivisions(ctx, ListOptions{Page: 1, PerPage: 5, Filters: map[string]string{"name": "fin"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, d.ID, rows[0].ID)
	assert.Equal(t, 5, page.PerPage)

	require.NoError(t, c.Refresh(ctx))
	_, _, err = c.ListDivisions(ctx, ListOptions{})
	require.NoError(t, err)

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.Session().Authenticated())
	assert.NoError(t, c.Logout(ctx))
	assert.ErrorIs(t, c.Refresh(ctx), ErrNotAuthenticated)
}

func TestClientClearsSessionOn401(t *testing.T) {
	srv := newServer(t)
	session := &Session{}
	session.Set("stale-token", "stale-refresh")
	c := New(srv.URL, session)

	_, _, err := c.ListDivisions(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.False(t, session.Authenticated())
	assert.Empty(t, session.RefreshToken())
}

func TestClientPosts(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, nil)
	ctx := context.Background()
	_, err := c.Login(ctx, "admin", "pastibisa")
	require.NoError(t, err)

	_, err = c.CreatePost(ctx, "x", "", "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Fields, "title")

	p, err := c.CreatePost(ctx, "Town hall", "Friday 3pm", "events")
	require.NoError(t, err)
	assert.Equal(t, "events", p.Category)

	// 公开列表无需登录
	anon := New(srv.URL, nil)
	posts, page, err := anon.ListPosts(ctx, ListOptions{Filters: map[string]string{"category": "events"}})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, c.DeletePost(ctx, p.ID))
	err = c.DeletePost(ctx, p.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestListOptionsQuery(t *testing.T) {
	assert.Empty(t, ListOptions{}.query())
	assert.Equal(t, "page=2&per_page=20&q=ops", ListOptions{Page: 2, PerPage: 20, Filters: map[string]string{"q": "ops"}}.query().Encode())
}
