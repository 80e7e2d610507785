package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/model"
	"github.com/sakif/inkwell/internal/repository"
)

// PostService handles business logic for blog posts.
type PostService struct {
	repo   repository.PostRepository
	users  repository.UserRepository
	logger *slog.Logger
}

func NewPostService(repo repository.PostRepository, users repository.UserRepository, logger *slog.Logger) *PostService {
	return &PostService{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title     string
	Content   string
	Published bool
}

// Create saves a new post owned by authorID.
//
// A token stays valid after its account is gone, so the author is looked
// up first; an unknown author is apperror.ErrForbidden, not a foreign key
// failure from the store.
func (s *PostService) Create(ctx context.Context, authorID string, in PostInput) (*model.Post, error) {
	if authorID == "" {
		return nil, fmt.Errorf("service/post: author ID must not be empty")
	}

	if _, err := s.users.GetUserByID(ctx, authorID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Warn("post create for unknown author", slog.String("authorID", authorID))
			return nil, apperror.Forbidden("not authorized")
		}
		return nil, fmt.Errorf("service/post: loading author %s: %w", authorID, err)
	}

	post := &model.Post{
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		AuthorID:  authorID,
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("authorID", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/post: creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("authorID", authorID),
	)

	return post, nil
}

// Update rewrites a post that authorID owns.
//
// Ownership is checked by the repository in the same statement as the
// write. Someone else's post and a missing post are both
// apperror.ErrNotFound; the stored row is left untouched either way.
func (s *PostService) Update(ctx context.Context, authorID, postID string, in PostInput) (*model.Post, error) {
	if authorID == "" {
		return nil, fmt.Errorf("service/post: author ID must not be empty")
	}

	post := &model.Post{
		ID:        postID,
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		AuthorID:  authorID,
	}

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update post",
			slog.String("postID", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/post: updating post %s: %w", postID, err)
	}

	s.logger.Info("post updated",
		slog.String("postID", post.ID),
		slog.String("authorID", authorID),
	)

	return post, nil
}

// Get returns the post with its author's name, or (nil, nil) when no
// post has that id.
func (s *PostService) Get(ctx context.Context, id string) (*model.PostView, error) {
	view, err := s.repo.GetPostView(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("service/post: getting post %s: %w", id, err)
	}
	return view, nil
}

// List returns every post, newest first. Never nil.
func (s *PostService) List(ctx context.Context) ([]model.PostView, error) {
	views, err := s.repo.ListPostViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}
	if views == nil {
		views = []model.PostView{}
	}
	return views, nil
}
