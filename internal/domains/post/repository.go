package post

import "context"

type Repository interface {
	// List returns one page of posts matching filter, newest first, and the total match count.
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]Post, int, error)

	// FindBySlug returns ErrPostNotFound if no post has that slug.
	FindBySlug(ctx context.Context, slug string) (*Post, error)

	// TitleTaken reports whether another post (id != exceptID) has exactly this title.
	TitleTaken(ctx context.Context, title string, exceptID int64) (bool, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)

	CategoryExists(ctx context.Context, slug string) (bool, error)
	// MissingTags returns the slugs in tags that have no tag row.
	MissingTags(ctx context.Context, tags []string) ([]string, error)

	// Create inserts p with its tag links in one transaction and sets ID and CreatedAt.
	Create(ctx context.Context, p *Post) error
	// Update writes p's columns; when replaceTags is set its tag links are replaced too.
	Update(ctx context.Context, p *Post, replaceTags bool) error
	// Delete removes the post; post_tag rows cascade.
	Delete(ctx context.Context, id int64) error
}
