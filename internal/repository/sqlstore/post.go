package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/model"
	"github.com/sakif/inkwell/internal/repository"
)

var _ repository.PostRepository = (*DB)(nil)

const postColumns = `id, title, content, published, author_id, created_at, updated_at`

// postViewQuery joins each post to its author's name. Callers append a
// WHERE and/or ORDER BY clause.
const postViewQuery = `
	SELECT p.id, p.title, p.content, p.published, p.author_id, p.created_at,
	       u.name AS author_name
	FROM posts p
	JOIN users u ON u.id = p.author_id`

// postViewRow is the flat scan target for postViewQuery.
type postViewRow struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	Published  bool      `db:"published"`
	AuthorID   string    `db:"author_id"`
	CreatedAt  time.Time `db:"created_at"`
	AuthorName string    `db:"author_name"`
}

func (r postViewRow) view() model.PostView {
	return model.PostView{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Published: r.Published,
		AuthorID:  r.AuthorID,
		CreatedAt: r.CreatedAt,
		Author:    model.Author{Name: r.AuthorName},
	}
}

// CreatePost inserts post, filling in ID and timestamps.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	now := time.Now().UTC()
	post.ID = xid.New().String()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := db.conn.NamedExecContext(ctx,
		`INSERT INTO posts (id, title, content, published, author_id, created_at, updated_at)
		 VALUES (:id, :title, :content, :published, :author_id, :created_at, :updated_at)`,
		post,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: inserting post: %w", err)
	}

	return nil
}

// UpdatePost applies title, content and published to the row matching
// both post.ID and post.AuthorID. The ownership check is part of the
// UPDATE itself, so a post that does not exist and a post owned by
// someone else both come back as apperror.ErrNotFound.
//
// On success post is refreshed from the stored row (created_at included)
// inside the same transaction.
func (db *DB) UpdatePost(ctx context.Context, post *model.Post) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: beginning post update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		tx.Rebind(`UPDATE posts
		 SET title = ?, content = ?, published = ?, updated_at = ?
		 WHERE id = ? AND author_id = ?`),
		post.Title,
		post.Content,
		post.Published,
		time.Now().UTC(),
		post.ID,
		post.AuthorID,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: updating post %s: %w", post.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("post", post.ID)
	}

	if err := tx.GetContext(ctx, post,
		tx.Rebind(`SELECT `+postColumns+` FROM posts WHERE id = ?`),
		post.ID,
	); err != nil {
		return fmt.Errorf("sqlstore: reloading post %s: %w", post.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: committing post update: %w", err)
	}

	return nil
}

// GetPostView returns one post with its author's name.
func (db *DB) GetPostView(ctx context.Context, id string) (*model.PostView, error) {
	var row postViewRow

	err := db.conn.GetContext(ctx, &row,
		db.conn.Rebind(postViewQuery+` WHERE p.id = ?`),
		id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlstore: getting post %s: %w", id, err)
	}

	v := row.view()
	return &v, nil
}

// ListPostViews returns every post with its author's name, newest first.
// The slice is empty, never nil, when there are no posts.
func (db *DB) ListPostViews(ctx context.Context) ([]model.PostView, error) {
	rows, err := db.conn.QueryxContext(ctx,
		postViewQuery+` ORDER BY p.created_at DESC, p.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing posts: %w", err)
	}
	defer rows.Close()

	views := make([]model.PostView, 0)
	for rows.Next() {
		var row postViewRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning post row: %w", err)
		}
		views = append(views, row.view())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating posts: %w", err)
	}

	return views, nil
}
