package router

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
	"Office_Hub/internal/repository/memory"
	"Office_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	t      *testing.T
	engine *gin.Engine
	store  *memory.Store
}

type envelope struct {
	Status     string              `json:"status"`
	Message    string              `json:"message"`
	Data       map[string]any      `json:"data"`
	Pagination *pkg.Pagination     `json:"pagination"`
	Errors     map[string][]string `json:"errors"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	kv := memory.NewKV()
	storage := pkg.NewDiskStorage(t.TempDir(), "http://test.local")
	tokens := pkg.NewTokenManager("router-secret", "", time.Hour, 2*time.Hour)

	dashboard := service.NewDashboardService(store.Employees(), store.Divisions(), store.Activities(), kv.Cache())
	users := service.NewUserService(store.Users(), store.Posts(), kv, tokens, storage)
	require.NoError(t, users.EnsureAdmin(context.Background(), "admin", "pastibisa", "admin@example.com"))

	engine := InitRouter(Deps{
		Users:     users,
		Divisions: service.NewDivisionService(store.Divisions(), store.Employees(), dashboard.Invalidate),
		Employees: service.NewEmployeeService(store.Employees(), store.Divisions(), storage,
			service.ActivityHook(store.Activities()), dashboard.EmployeeHook()),
		Posts:     service.NewPostService(store.Posts(), storage),
		Comments:  service.NewCommentService(store.Comments(), store.Posts(), nil),
		Dashboard: dashboard,
		Reports:   service.NewReportService(store.Scores(), kv.Cache(), kv.Locker()),
		Storage:   storage,
	})
	return &testApp{t: t, engine: engine, store: store}
}

func (a *testApp) send(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *testApp) json(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return a.send(req, token)
}

// multipart fields 中 image/avatar 作为文件上传
func (a *testApp) multipart(method, path, token string, fields map[string]string, fileField string, file []byte) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(a.t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, "upload.png")
		require.NoError(a.t, err)
		_, err = part.Write(file)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.send(req, token)
}

func (a *testApp) login(username, password string) string {
	a.t.Helper()
	w, env := a.json("POST", "/api/login", "", gin.H{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return env.Data["token"].(string)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func TestAdminLoginFlow(t *testing.T) {
	app := newTestApp(t)

	w, env := app.json("POST", "/api/login", "", gin.H{"username": "admin", "password": "pastibisa"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)
	token := env.Data["token"].(string)
	refresh := env.Data["refresh_token"].(string)
	assert.NotEmpty(t, refresh)
	admin := env.Data["admin"].(map[string]any)
	assert.Equal(t, "admin", admin["username"])
	assert.Equal(t, "admin@example.com", admin["email"])

	w, _ = app.json("GET", "/api/divisions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = app.json("GET", "/api/divisions", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, env.Data["divisions"])
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 0, env.Pagination.LastPage)

	w, env = app.json("POST", "/api/login", token, gin.H{"username": "admin", "password": "pastibisa"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "error", env.Status)

	w, _ = app.json("POST", "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.json("GET", "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = app.json("POST", "/api/token/refresh", "", gin.H{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginFailures(t *testing.T) {
	app := newTestApp(t)

	w, env := app.json("POST", "/api/login", "", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "error", env.Status)

	w, env = app.json("POST", "/api/login", "", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "password")
}

func TestRegisterRefreshAndProfile(t *testing.T) {
	app := newTestApp(t)

	w, env := app.json("POST", "/api/register", "", gin.H{"username": "ana", "email": "ana@example.com", "password": "password1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := env.Data["user"].(map[string]any)
	userID := user["id"].(string)
	assert.Nil(t, user["avatar"])
	refresh := env.Data["refresh_token"].(string)

	w, _ = app.json("POST", "/api/register", "", gin.H{"username": "ana", "email": "ana2@example.com", "password": "password1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = app.json("POST", "/api/token/refresh", "", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, w.Code)
	token := env.Data["token"].(string)
	refresh = env.Data["refresh_token"].(string)

	w, env = app.json("PUT", "/api/me", token, gin.H{"name": "Ana K"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana K", env.Data["user"].(map[string]any)["name"])

	w, env = app.multipart("POST", "/api/me/avatar", token, nil, "avatar", pngBytes(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	avatar := env.Data["user"].(map[string]any)["avatar"].(string)
	assert.True(t, strings.HasPrefix(avatar, "http://test.local/uploads/avatars/"))

	// 上传后的文件可以通过静态路由访问
	w, _ = app.send(httptest.NewRequest("GET", strings.TrimPrefix(avatar, "http://test.local"), nil), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = app.json("GET", "/api/users/"+userID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, env.Data["user"].(map[string]any), "email")
	assert.Equal(t, []any{}, env.Data["posts"])

	w, _ = app.json("GET", "/api/users/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = app.json("POST", "/api/me/password", token, gin.H{"old_password": "password1", "new_password": "password2"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = app.json("GET", "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = app.json("POST", "/api/token/refresh", "", gin.H{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	app.login("ana", "password2")
}

func TestDivisionPagesCoverEveryRecord(t *testing.T) {
	app := newTestApp(t)
	token := app.login("admin", "pastibisa")
	for i := 23; i >= 1; i-- {
		require.NoError(t, app.store.Divisions().Create(context.Background(), &model.Division{Name: fmt.Sprintf("Division %02d", i)}))
	}

	tests := []struct {
		perPage  int
		lastPage int
	}{
		{10, 3},
		{7, 4},
		{23, 1},
		{100, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("per_page=%d", tt.perPage), func(t *testing.T) {
			seen := map[string]bool{}
			var names []string
			for page := 1; page <= tt.lastPage+1; page++ {
				w, env := app.json("GET", fmt.Sprintf("/api/divisions?page=%d&per_page=%d", page, tt.perPage), token, nil)
				require.Equal(t, http.StatusOK, w.Code)
				require.NotNil(t, env.Pagination)
				assert.Equal(t, int64(23), env.Pagination.Total)
				assert.Equal(t, tt.lastPage, env.Pagination.LastPage)

				items := env.Data["divisions"].([]any)
				if page > tt.lastPage {
					assert.Empty(t, items)
					assert.Nil(t, env.Pagination.From)
					continue
				}
				require.NotNil(t, env.Pagination.From)
				assert.Equal(t, int64((page-1)*tt.perPage+1), *env.Pagination.From)
				assert.Equal(t, *env.Pagination.From+int64(len(items))-1, *env.Pagination.To)
				for _, it := range items {
					d := it.(map[string]any)
					id := d["id"].(string)
					assert.False(t, seen[id], "division %s appears on more than one page", id)
					seen[id] = true
					names = append(names, d["name"].(string))
				}
			}
			assert.Len(t, seen, 23)
			assert.IsIncreasing(t, names)
		})
	}
}

func TestDivisionEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := app.login("admin", "pastibisa")

	w, env := app.json("POST", "/api/divisions", token, gin.H{"name": "Backend"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := env.Data["division"].(map[string]any)["id"].(string)

	w, env = app.json("POST", "/api/divisions", token, gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "name")

	w, env = app.json("PUT", "/api/divisions/"+id, token, gin.H{"name": "Platform"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Platform", env.Data["division"].(map[string]any)["name"])

	w, env = app.json("GET", "/api/divisions?name=plat", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.Data["divisions"], 1)

	w, _ = app.json("GET", "/api/divisions/12345", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = app.json("DELETE", "/api/divisions/"+id, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.json("DELETE", "/api/divisions/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmployeeEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := app.login("admin", "pastibisa")
	_, env := app.json("POST", "/api/divisions", token, gin.H{"name": "Support"})
	divisionID := env.Data["division"].(map[string]any)["id"].(string)

	fields := map[string]string{"name": "Budi", "phone": "0812", "division": divisionID, "position": "Agent"}

	w, env := app.multipart("POST", "/api/employees", token, fields, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"image is required"}, env.Errors["image"])

	w, env = app.multipart("POST", "/api/employees", token, fields, "image", []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "image")

	w, env = app.multipart("POST", "/api/employees", token, fields, "image", pngBytes(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	emp := env.Data["employee"].(map[string]any)
	empID := emp["id"].(string)
	assert.Equal(t, "Support", emp["division"].(map[string]any)["name"])
	assert.True(t, strings.HasPrefix(emp["image"].(string), "http://test.local/uploads/employees/"))

	// POST /:id 与 PUT 等价
	fields["position"] = "Lead"
	w, env = app.multipart("POST", "/api/employees/"+empID, token, fields, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Lead", env.Data["employee"].(map[string]any)["position"])
	assert.Equal(t, emp["image"], env.Data["employee"].(map[string]any)["image"])

	w, env = app.json("GET", "/api/employees?page=3&per_page=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, env.Data["employees"])
	assert.Equal(t, int64(1), env.Pagination.Total)
	assert.Nil(t, env.Pagination.From)
	assert.Nil(t, env.Pagination.To)

	w, _ = app.json("DELETE", "/api/divisions/"+divisionID, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = app.json("GET", "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := env.Data["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["total_employees"])
	activities := env.Data["activities"].([]any)
	require.Len(t, activities, 2)
	assert.Equal(t, "Employee Budi details updated", activities[0].(map[string]any)["description"])

	req := httptest.NewRequest("GET", "/api/employees/export", nil)
	w, _ = app.send(req, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="employees_export_`)
	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Image URL", records[0][5])
	assert.Equal(t, []string{empID, "Budi", "Support", "Lead", "0812"}, records[1][:5])

	w, env = app.json("POST", "/api/employees/bulk-delete", token, gin.H{"ids": []string{empID, "nope"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Deleted 1 employees", env.Message)
	assert.Equal(t, []any{empID}, env.Data["deleted"])
	assert.Equal(t, []any{"nope"}, env.Data["not_found"])
	assert.Equal(t, []any{}, env.Data["failed"])

	w, env = app.json("POST", "/api/employees/bulk-delete", token, gin.H{"ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "ids")

	w, _ = app.json("GET", "/api/employees/"+empID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostAndCommentOwnership(t *testing.T) {
	app := newTestApp(t)
	_, env := app.json("POST", "/api/register", "", gin.H{"username": "writer", "email": "w@example.com", "password": "password1"})
	writer := env.Data["token"].(string)
	_, env = app.json("POST", "/api/register", "", gin.H{"username": "reader", "email": "r@example.com", "password": "password1"})
	reader := env.Data["token"].(string)

	w, env := app.multipart("POST", "/api/posts", writer, map[string]string{"title": "Release notes", "content": "v2 is out", "category": "news"}, "image", pngBytes(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := env.Data["post"].(map[string]any)
	postID := post["id"].(string)
	assert.Equal(t, "writer", post["author"].(map[string]any)["username"])

	w, env = app.json("POST", "/api/posts", writer, gin.H{"title": "x", "content": "y"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "title")

	w, _ = app.json("PUT", "/api/posts/"+postID, reader, gin.H{"title": "Hijacked", "content": "nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = app.json("PUT", "/api/posts/"+postID, writer, gin.H{"title": "Release notes v2", "content": "v2.1 is out"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Release notes v2", env.Data["post"].(map[string]any)["title"])

	w, env = app.json("POST", "/api/posts/"+postID+"/comments", reader, gin.H{"content": "congrats"})
	require.Equal(t, http.StatusCreated, w.Code)
	commentID := env.Data["comment"].(map[string]any)["id"].(string)

	w, env = app.json("GET", "/api/posts/"+postID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.Data["comments"], 1)

	w, _ = app.json("PUT", "/api/comments/"+commentID, writer, gin.H{"content": "edited"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = app.json("PUT", "/api/posts/"+postID+"/comments/"+commentID, reader, gin.H{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "edited", env.Data["comment"].(map[string]any)["content"])

	w, env = app.json("GET", "/api/posts?q=WRITER", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.Data["posts"], 1)
	assert.Equal(t, 1, env.Pagination.LastPage)

	w, _ = app.json("DELETE", "/api/posts/"+postID, reader, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = app.json("DELETE", "/api/posts/"+postID, writer, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = app.json("GET", "/api/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = app.json("DELETE", "/api/comments/"+commentID, reader, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportEndpoints(t *testing.T) {
	app := newTestApp(t)
	app.store.SeedScores(
		model.Score{Nama: "Ana", NISN: "001", MateriUjiID: 7, NamaPelajaran: "Realistic", Skor: 6},
		model.Score{Nama: "Ana", NISN: "001", MateriUjiID: 4, PelajaranID: 46, Skor: 1},
	)

	w, env := app.json("GET", "/api/reports/nilai-rt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reports := env.Data["reports"].([]any)
	require.Len(t, reports, 1)
	assert.Equal(t, map[string]any{"realistic": float64(6)}, reports[0].(map[string]any)["nilaiRt"])

	w, env = app.json("GET", "/api/reports/nilai-st", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := env.Data["reports"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 100, st["total"])
	assert.EqualValues(t, 100, st["listNilai"].(map[string]any)["penalaran"])
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)
	w, env := app.json("GET", "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", env.Status)
}
