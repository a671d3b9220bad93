package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.store.Posts(), f.images)
	u := f.user(t, "lina")

	_, err := svc.Create(context.Background(), identity(u), PostInput{Title: "Hi", Content: "", Category: strings.Repeat("c", 41)}, nil)
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "content")
	assert.Contains(t, fields, "category")
}

func TestPostCreateAndSearch(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.store.Posts(), f.images)
	ctx := context.Background()
	lina := f.user(t, "lina")
	mira := f.user(t, "mira")

	withImage, err := svc.Create(ctx, identity(lina), PostInput{Title: "Quarterly plan", Content: "Targets for Q3", Category: "news"}, pngHeader(t))
	require.NoError(t, err)
	require.NotNil(t, withImage.Author)
	assert.Equal(t, "lina", withImage.Author.Username)
	assert.NotEmpty(t, withImage.Image)
	assert.Equal(t, "http://test.local/uploads/"+withImage.Image, svc.ImageURL(withImage.Image))
	assert.Equal(t, "", svc.ImageURL(""))

	_, err = svc.Create(ctx, identity(mira), PostInput{Title: "Lunch menu", Content: "Nasi goreng"}, nil)
	require.NoError(t, err)

	q := pkg.PageQuery{Page: 1, PerPage: 10}

	rows, page, err := svc.List(ctx, model.PostFilter{}, q)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Lunch menu", rows[0].Title)
	assert.Equal(t, int64(2), page.Total)

	rows, _, err = svc.List(ctx, model.PostFilter{Query: " MIRA "}, q)
	require.NoError(t, err)
	require.Len(t, rows, 1, "query matches author username")
	assert.Equal(t, "Lunch menu", rows[0].Title)

	rows, _, err = svc.List(ctx, model.PostFilter{Query: "q3"}, q)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, _, err = svc.List(ctx, model.PostFilter{AuthorID: lina.ID, Category: "news"}, q)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, page, err = svc.List(ctx, model.PostFilter{AuthorID: "not-a-uuid"}, q)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, int64(0), page.Total)
}

func TestPostUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.store.Posts(), f.images)
	comments := NewCommentService(f.store.Comments(), f.store.Posts(), nil)
	ctx := context.Background()
	u := f.user(t, "nina")

	p, err := svc.Create(ctx, identity(u), PostInput{Title: "Draft", Content: "first"}, nil)
	require.NoError(t, err)
	note, err := comments.Create(ctx, identity(u), p.ID, "self note")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p, PostInput{Title: "Final", Content: "second", Category: "memo"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "memo", updated.Category)

	require.NoError(t, svc.Delete(ctx, updated))
	_, err = svc.Get(ctx, p.ID)
	assert.Equal(t, pkg.KindNotFound, pkg.KindOf(err))

	// 评论随帖子一起删除
	_, err = comments.Get(ctx, note.ID)
	assert.Equal(t, pkg.KindNotFound, pkg.KindOf(err))
	_, _, err = comments.ListByPost(ctx, p.ID, pkg.PageQuery{Page: 1, PerPage: 10})
	assert.Equal(t, pkg.KindNotFound, pkg.KindOf(err))

	assert.Equal(t, pkg.KindNotFound, pkg.KindOf(svc.Delete(ctx, updated)))
}

func TestPostGetMalformedID(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.store.Posts(), f.images)
	_, err := svc.Get(context.Background(), "123")
	assert.Equal(t, pkg.KindNotFound, pkg.KindOf(err))
}

func TestPostUpdateImageReplacement(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.store.Posts(), f.images)
	ctx := context.Background()
	u := f.user(t, "omar")

	p, err := svc.Create(ctx, identity(u), PostInput{Title: "Photo", Content: "with image"}, pngHeader(t))
	require.NoError(t, err)
	oldPath := filepath.Join(f.images.Root(), filepath.FromSlash(p.Image))

	_, err = svc.Update(ctx, p, PostInput{Title: "Photo", Content: "with image"}, fileHeader(t, "x.txt", []byte("nope")))
	assert.Contains(t, fieldsOf(t, err), "image")
	_, err = os.Stat(oldPath)
	assert.NoError(t, err, "old image must survive a rejected upload")

	current, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	updated, err := svc.Update(ctx, current, PostInput{Title: "Photo", Content: "new image"}, pngHeader(t))
	require.NoError(t, err)
	assert.NotEqual(t, current.Image, updated.Image)
	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(f.images.Root(), filepath.FromSlash(updated.Image)))
	assert.NoError(t, err)
}
