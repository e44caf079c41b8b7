package post

import "time"

type Post struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Slug       string    `db:"slug" json:"slug"`
	Text       string    `db:"text" json:"text"`
	CategoryID *string   `db:"category_id" json:"category"`
	AuthorID   int64     `db:"author_id" json:"author_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	Tags       []string  `db:"tags" json:"tags"`
}

// IsAuthor reports whether userID may mutate the post.
func (p *Post) IsAuthor(userID int64) bool {
	return p.AuthorID == userID
}
