package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"mime/multipart"
	"testing"
	"time"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
	"Office_Hub/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memory.Store
	kv     *memory.KV
	images *pkg.DiskStorage
	tokens *pkg.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		store:  memory.New(),
		kv:     memory.NewKV(),
		images: pkg.NewDiskStorage(t.TempDir(), "http://test.local"),
		tokens: pkg.NewTokenManager("test-secret", "", time.Hour, 2*time.Hour),
	}
}

func (f *fixture) users() *UserService {
	return NewUserService(f.store.Users(), f.store.Posts(), f.kv, f.tokens, f.images)
}

func (f *fixture) employees(hooks ...EmployeeHook) *EmployeeService {
	return NewEmployeeService(f.store.Employees(), f.store.Divisions(), f.images, hooks...)
}

func (f *fixture) division(t *testing.T, name string) *model.Division {
	t.Helper()
	d := &model.Division{Name: name}
	require.NoError(t, f.store.Divisions().Create(context.Background(), d))
	return d
}

func (f *fixture) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{Name: username, Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func identity(u *model.User) pkg.Identity {
	return pkg.Identity{ID: u.ID, Username: u.Username, Email: u.Email}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func pngHeader(t *testing.T) *multipart.FileHeader {
	return fileHeader(t, "photo.png", pngBytes(t))
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	var appErr *pkg.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkg.KindValidation, appErr.Kind)
	return appErr.Fields
}
