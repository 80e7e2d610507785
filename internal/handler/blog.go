package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/inkwell/internal/auth"
	"github.com/sakif/inkwell/internal/model"
	"github.com/sakif/inkwell/internal/service"
	"github.com/sakif/inkwell/internal/validation"
)

// Posts is the slice of service.PostService the blog routes need.
type Posts interface {
	Create(ctx context.Context, authorID string, in service.PostInput) (*model.Post, error)
	Update(ctx context.Context, authorID, postID string, in service.PostInput) (*model.Post, error)
	Get(ctx context.Context, id string) (*model.PostView, error)
	List(ctx context.Context) ([]model.PostView, error)
}

type CreatePostResponse struct {
	UserID string `json:"userId"`
	PostID string `json:"postId"`
}

type UpdatePostResponse struct {
	UserID   string      `json:"userId"`
	PostData *model.Post `json:"postData"`
}

// GetPostResponse carries a null post when the id is unknown.
type GetPostResponse struct {
	Post *model.PostView `json:"post"`
}

type ListPostsResponse struct {
	Posts []model.PostView `json:"posts"`
}

// BlogHandler serves /api/v1/blog.
type BlogHandler struct {
	posts    Posts
	validate *validation.Validator
	logger   *slog.Logger
}

func NewBlogHandler(posts Posts, validate *validation.Validator, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{posts: posts, validate: validate, logger: logger}
}

// HandleCreate publishes a post owned by the authenticated user.
//
// HTTP: POST /api/v1/blog (bearer)
// REQUEST BODY: {"title": "...", "content": "...", "published": false}
// RESPONSE: 200 {"userId": "...", "postId": "..."}
func (h *BlogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, fmt.Errorf("handler: blog create reached without an authenticated user"))
		return
	}

	var in validation.CreatePostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	post, err := h.posts.Create(r.Context(), userID, service.PostInput{
		Title:     in.Title,
		Content:   in.Content,
		Published: *in.Published,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, CreatePostResponse{UserID: userID, PostID: post.ID})
}

// HandleUpdate rewrites a post the authenticated user owns.
//
// HTTP: PUT /api/v1/blog/{pId} (bearer)
// RESPONSE: 200 {"userId": "...", "postData": {...}}, or 404 when the post
// does not exist or belongs to someone else
func (h *BlogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, fmt.Errorf("handler: blog update reached without an authenticated user"))
		return
	}

	var in validation.UpdatePostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	post, err := h.posts.Update(r.Context(), userID, chi.URLParam(r, "pId"), service.PostInput{
		Title:     in.Title,
		Content:   in.Content,
		Published: *in.Published,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, UpdatePostResponse{UserID: userID, PostData: post})
}

// HandleGet returns one post with its author's name.
//
// HTTP: GET /api/v1/blog/{pId} (public)
// RESPONSE: 200 {"post": {...}} or 200 {"post": null}
func (h *BlogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.posts.Get(r.Context(), chi.URLParam(r, "pId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, GetPostResponse{Post: view})
}

// HandleList returns every post, newest first.
//
// HTTP: GET /api/v1/blog/bulk/posts (bearer)
// RESPONSE: 200 {"posts": [...]}
func (h *BlogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	views, err := h.posts.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ListPostsResponse{Posts: views})
}
