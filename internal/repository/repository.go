// Package repository declares the data store gateway the services depend on.
// Implementations live in subpackages (see repository/sqlstore).
package repository

import (
	"context"

	"github.com/sakif/inkwell/internal/model"
)

// UserRepository persists accounts.
type UserRepository interface {
	// CreateUser assigns ID and timestamps. A duplicate email returns an
	// error wrapping apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByEmail returns apperror.ErrNotFound when no account matches.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUserByID returns apperror.ErrNotFound when no account has that id.
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// PostRepository persists blog posts.
type PostRepository interface {
	// CreatePost assigns ID and timestamps; post.AuthorID must be set.
	CreatePost(ctx context.Context, post *model.Post) error
	// UpdatePost rewrites title, content and published of the post
	// matching both post.ID and post.AuthorID, then refreshes post from
	// the stored row. Zero matching rows returns apperror.ErrNotFound.
	UpdatePost(ctx context.Context, post *model.Post) error
	// GetPostView returns apperror.ErrNotFound when no post has that id.
	GetPostView(ctx context.Context, id string) (*model.PostView, error)
	// ListPostViews returns every post, newest first.
	ListPostViews(ctx context.Context) ([]model.PostView, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
