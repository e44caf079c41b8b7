package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/infrastructure/database"
	txutil "blog-backend/pkg/database"
)

const (
	constraintTitle = "posts_title_key"
	constraintSlug  = "ix_posts_slug"
)

// Tags are aggregated per row so the page query never multiplies posts.
const postSelect = `
	SELECT p.id, p.title, p.slug, p.text, p.category_id, p.author_id, p.created_at,
		ARRAY(SELECT pt.tag_id FROM post_tag pt WHERE pt.post_id = p.id ORDER BY pt.tag_id) AS tags
	FROM posts p
`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) post.Repository {
	return &postgresRepository{
		pool: pool,
	}
}

// ========================================
// QUERIES
// ========================================

func (r *postgresRepository) List(ctx context.Context, filter post.PostFilter, limit, offset int) ([]post.Post, int, error) {
	where, args := post.BuildPostFilter(filter, 1)

	// 1. Total count for the same filter
	var total int
	countQuery := `SELECT COUNT(*) FROM posts p ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	if total == 0 || offset >= total {
		return []post.Post{}, total, nil
	}

	// 2. Page, stable order
	argPos := len(args) + 1
	query := fmt.Sprintf(`%s %s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d`,
		postSelect, where, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	posts, err := pgx.CollectRows(rows, pgx.RowToStructByName[post.Post])
	if err != nil {
		return nil, 0, fmt.Errorf("scan posts: %w", err)
	}

	return posts, total, nil
}

func (r *postgresRepository) FindBySlug(ctx context.Context, slug string) (*post.Post, error) {
	rows, err := r.pool.Query(ctx, postSelect+` WHERE p.slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("query post: %w", err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[post.Post])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	return p, nil
}

func (r *postgresRepository) TitleTaken(ctx context.Context, title string, exceptID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE title = $1 AND id <> $2)`, title, exceptID)
}

func (r *postgresRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, slug)
}

func (r *postgresRepository) CategoryExists(ctx context.Context, slug string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1)`, slug)
}

func (r *postgresRepository) MissingTags(ctx context.Context, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	query := `
		SELECT t.slug
		FROM unnest($1::text[]) WITH ORDINALITY AS t(slug, pos)
		WHERE NOT EXISTS (SELECT 1 FROM tags WHERE tags.slug = t.slug)
		ORDER BY t.pos
	`
	rows, err := r.pool.Query(ctx, query, tags)
	if err != nil {
		return nil, fmt.Errorf("check tags: %w", err)
	}

	missing, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan tags: %w", err)
	}
	return missing, nil
}

func (r *postgresRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists query: %w", err)
	}
	return exists, nil
}

// ========================================
// MUTATIONS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, p *post.Post) error {
	err := txutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO posts (title, slug, text, category_id, author_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`
		if err := tx.QueryRow(ctx, query,
			p.Title, p.Slug, p.Text, p.CategoryID, p.AuthorID,
		).Scan(&p.ID, &p.CreatedAt); err != nil {
			return err
		}

		return insertTags(ctx, tx, p.ID, p.Tags)
	})

	return translateWriteError(err, "create post")
}

func (r *postgresRepository) Update(ctx context.Context, p *post.Post, replaceTags bool) error {
	err := txutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE posts SET title = $1, text = $2, category_id = $3
			WHERE id = $4
		`, p.Title, p.Text, p.CategoryID, p.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return post.ErrPostNotFound
		}

		if !replaceTags {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM post_tag WHERE post_id = $1`, p.ID); err != nil {
			return err
		}
		return insertTags(ctx, tx, p.ID, p.Tags)
	})

	return translateWriteError(err, "update post")
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

func insertTags(ctx context.Context, tx pgx.Tx, postID int64, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO post_tag (post_id, tag_id)
		SELECT $1, unnest($2::text[])
	`, postID, tags)
	return err
}

func translateWriteError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, post.ErrPostNotFound) {
		return err
	}
	if name, ok := database.ConstraintViolation(err, database.CodeUniqueViolation); ok {
		switch name {
		case constraintTitle:
			return post.ErrDuplicateTitle
		case constraintSlug:
			return post.ErrDuplicateSlug
		}
	}
	if _, ok := database.ConstraintViolation(err, database.CodeForeignKeyViolation); ok {
		return post.ErrUnknownReference
	}
	return fmt.Errorf("%s: %w", op, err)
}
