package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/model"
)

// =========================================================================
// FAKES
// =========================================================================
//
// Hand-written in-memory implementations of the repository interfaces.
// Setting one of the *Err fields simulates a database failure.

type fakeUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int

	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return apperror.Conflict("user", "email", user.Email)
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	stored := *user
	f.byID[user.ID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

type fakePostRepo struct {
	posts  map[string]*model.Post
	names  map[string]string // authorID → name, for views
	nextID int

	err error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts: make(map[string]*model.Post),
		names: make(map[string]string),
	}
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *model.Post) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	post.ID = fmt.Sprintf("post-%d", f.nextID)
	// Spread creation times so ordering is deterministic.
	post.CreatedAt = time.Unix(int64(f.nextID), 0)
	post.UpdatedAt = post.CreatedAt

	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakePostRepo) UpdatePost(_ context.Context, post *model.Post) error {
	if f.err != nil {
		return f.err
	}
	stored, ok := f.posts[post.ID]
	if !ok || stored.AuthorID != post.AuthorID {
		return apperror.NotFound("post", post.ID)
	}
	stored.Title = post.Title
	stored.Content = post.Content
	stored.Published = post.Published
	*post = *stored
	return nil
}

func (f *fakePostRepo) GetPostView(_ context.Context, id string) (*model.PostView, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	v := f.view(p)
	return &v, nil
}

func (f *fakePostRepo) ListPostViews(_ context.Context) ([]model.PostView, error) {
	if f.err != nil {
		return nil, f.err
	}
	var views []model.PostView // nil when empty; the service must fix that up
	for _, p := range f.posts {
		views = append(views, f.view(p))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.After(views[j].CreatedAt) })
	return views, nil
}

func (f *fakePostRepo) view(p *model.Post) model.PostView {
	return model.PostView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		Author:    model.Author{Name: f.names[p.AuthorID]},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
