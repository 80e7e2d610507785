package model

import "time"

// Post is a blog entry. AuthorID is fixed at creation; only the author
// may change Title, Content or Published afterwards.
type Post struct {
	ID        string    `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	Content   string    `json:"content"   db:"content"`
	Published bool      `json:"published" db:"published"`
	AuthorID  string    `json:"authorId"  db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Author is the public slice of a User attached to a PostView.
type Author struct {
	Name string `json:"name"`
}

// PostView is the read model returned by the get-one and list endpoints:
// the post plus its author's display name.
type PostView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"author"`
}
