package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/auth"
	"github.com/sakif/inkwell/internal/model"
	"github.com/sakif/inkwell/internal/service"
	"github.com/sakif/inkwell/internal/validation"
)

// fakePosts records what the handler passed and returns canned results.
type fakePosts struct {
	gotAuthorID string
	gotPostID   string
	gotInput    service.PostInput
	calls       int

	post  *model.Post
	view  *model.PostView
	views []model.PostView
	err   error
}

func (f *fakePosts) Create(_ context.Context, authorID string, in service.PostInput) (*model.Post, error) {
	f.calls++
	f.gotAuthorID, f.gotInput = authorID, in
	return f.post, f.err
}

func (f *fakePosts) Update(_ context.Context, authorID, postID string, in service.PostInput) (*model.Post, error) {
	f.calls++
	f.gotAuthorID, f.gotPostID, f.gotInput = authorID, postID, in
	return f.post, f.err
}

func (f *fakePosts) Get(_ context.Context, id string) (*model.PostView, error) {
	f.calls++
	f.gotPostID = id
	return f.view, f.err
}

func (f *fakePosts) List(_ context.Context) ([]model.PostView, error) {
	f.calls++
	return f.views, f.err
}

// newBlogRouter mounts the handler the way the server does, with a fake
// auth step that trusts an X-Test-User header.
func newBlogRouter(posts Posts) http.Handler {
	h := NewBlogHandler(posts, validation.New(), discardLogger())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := r.Header.Get("X-Test-User"); id != "" {
				r = r.WithContext(auth.WithUserID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Post("/blog", h.HandleCreate)
	r.Put("/blog/{pId}", h.HandleUpdate)
	r.Get("/blog/{pId}", h.HandleGet)
	r.Get("/blog/bulk/posts", h.HandleList)
	return r
}

func serve(t *testing.T, h http.Handler, method, path, body, user string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandleCreate(t *testing.T) {
	posts := &fakePosts{post: &model.Post{ID: "post-1"}}
	router := newBlogRouter(posts)

	rr := serve(t, router, http.MethodPost, "/blog",
		`{"title":"Hello","content":"World","published":false}`, "user-1")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"userId":"user-1","postId":"post-1"}`, rr.Body.String())
	assert.Equal(t, "user-1", posts.gotAuthorID)
	assert.Equal(t, service.PostInput{Title: "Hello", Content: "World", Published: false}, posts.gotInput)
}

func TestHandleCreate_InvalidNeverReachesService(t *testing.T) {
	posts := &fakePosts{}
	router := newBlogRouter(posts)

	rr := serve(t, router, http.MethodPost, "/blog", `{"title":"","content":"x","published":true}`, "user-1")

	assert.Equal(t, http.StatusLengthRequired, rr.Code)
	assert.Zero(t, posts.calls)
}

func TestHandleCreate_WithoutUserIsInternalError(t *testing.T) {
	posts := &fakePosts{}
	router := newBlogRouter(posts)

	rr := serve(t, router, http.MethodPost, "/blog", `{"title":"t","content":"c","published":true}`, "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Zero(t, posts.calls)
}

func TestHandleUpdate(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	posts := &fakePosts{post: &model.Post{
		ID: "post-9", Title: "New", Content: "Body", Published: true,
		AuthorID: "user-1", CreatedAt: created, UpdatedAt: created,
	}}
	router := newBlogRouter(posts)

	rr := serve(t, router, http.MethodPut, "/blog/post-9",
		`{"title":"New","content":"Body","published":true}`, "user-1")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "post-9", posts.gotPostID)
	assert.Equal(t, "user-1", posts.gotAuthorID)

	var body UpdatePostResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body.UserID)
	assert.Equal(t, "New", body.PostData.Title)
}

func TestHandleUpdate_NotOwned(t *testing.T) {
	posts := &fakePosts{err: apperror.NotFound("post", "post-9")}
	router := newBlogRouter(posts)

	rr := serve(t, router, http.MethodPut, "/blog/post-9",
		`{"title":"x","content":"y","published":true}`, "user-2")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		posts := &fakePosts{view: &model.PostView{ID: "post-1", Title: "T", Author: model.Author{Name: "Ada"}}}

		rr := serve(t, newBlogRouter(posts), http.MethodGet, "/blog/post-1", "", "")

		require.Equal(t, http.StatusOK, rr.Code)
		var body GetPostResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.NotNil(t, body.Post)
		assert.Equal(t, "Ada", body.Post.Author.Name)
		assert.Equal(t, "post-1", posts.gotPostID)
	})

	t.Run("missing", func(t *testing.T) {
		rr := serve(t, newBlogRouter(&fakePosts{}), http.MethodGet, "/blog/nope", "", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"post":null}`, rr.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		rr := serve(t, newBlogRouter(&fakePosts{err: errors.New("db down")}), http.MethodGet, "/blog/x", "", "")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "db down")
	})
}

func TestHandleList(t *testing.T) {
	posts := &fakePosts{views: []model.PostView{{ID: "b"}, {ID: "a"}}}

	rr := serve(t, newBlogRouter(posts), http.MethodGet, "/blog/bulk/posts", "", "user-1")

	require.Equal(t, http.StatusOK, rr.Code)
	var body ListPostsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Posts, 2)
	assert.Equal(t, "b", body.Posts[0].ID)
}
