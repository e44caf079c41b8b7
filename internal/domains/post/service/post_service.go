package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/utils"
)

type postService struct {
	repo post.Repository
}

func NewPostService(repo post.Repository) post.Service {
	return &postService{
		repo: repo,
	}
}

// ========================================
// READ
// ========================================

func (s *postService) List(ctx context.Context, req post.ListPostsRequest) (*pagination.Page[post.Post], error) {
	req.Params.SetDefaults()
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}

	posts, total, err := s.repo.List(ctx, req.Filter(), req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	page := pagination.NewPage(posts, total, req.Params)
	return &page, nil
}

func (s *postService) Get(ctx context.Context, slug string) (*post.Post, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// ========================================
// CREATE
// ========================================

func (s *postService) Create(ctx context.Context, authorID int64, req post.CreatePostRequest) (*post.Post, error) {
	// 1. Normalize and validate
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slug := utils.Slugify(req.Title)
	if slug == "" {
		return nil, validation.Errors{"title": errors.New("title must contain letters or digits")}
	}

	// 2. Title must be unique, then the derived slug
	taken, err := s.repo.TitleTaken(ctx, req.Title, 0)
	if err != nil {
		return nil, fmt.Errorf("check title: %w", err)
	}
	if taken {
		return nil, post.ErrDuplicateTitle
	}

	taken, err = s.repo.SlugTaken(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return nil, post.ErrDuplicateSlug
	}

	// 3. Category and tags must exist
	if err := s.checkReferences(ctx, req.Category, req.Tags); err != nil {
		return nil, err
	}

	// 4. Persist post and tag links together
	p := &post.Post{
		Title:      req.Title,
		Slug:       slug,
		Text:       req.Text,
		CategoryID: req.Category,
		AuthorID:   authorID,
		Tags:       req.Tags,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, s.writeError(err, "create post")
	}

	log.Info().Int64("post_id", p.ID).Str("slug", p.Slug).Int64("author_id", authorID).Msg("post created")
	return p, nil
}

// ========================================
// UPDATE / DELETE
// ========================================

func (s *postService) Update(ctx context.Context, requesterID int64, slug string, req post.UpdatePostRequest) (*post.Post, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 1. Ownership gate
	p, err := s.ownedPost(ctx, requesterID, slug)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return p, nil
	}

	// 2. Re-check uniqueness only when the title actually changes
	if req.Title.Set && req.Title.Value != p.Title {
		taken, err := s.repo.TitleTaken(ctx, req.Title.Value, p.ID)
		if err != nil {
			return nil, fmt.Errorf("check title: %w", err)
		}
		if taken {
			return nil, post.ErrDuplicateTitle
		}
	}

	// 3. References
	var category *string
	if req.Category.Set && req.Category.Value != "" {
		category = &req.Category.Value
	}
	var tags []string
	if req.Tags.Set {
		tags = req.Tags.Value
	}
	if err := s.checkReferences(ctx, category, tags); err != nil {
		return nil, err
	}

	// 4. Merge and persist; the slug stays stable
	replaceTags := req.ApplyTo(p)
	if err := s.repo.Update(ctx, p, replaceTags); err != nil {
		return nil, s.writeError(err, "update post")
	}

	return p, nil
}

func (s *postService) Delete(ctx context.Context, requesterID int64, slug string) error {
	p, err := s.ownedPost(ctx, requesterID, slug)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return err
		}
		return fmt.Errorf("delete post: %w", err)
	}

	log.Info().Int64("post_id", p.ID).Int64("author_id", requesterID).Msg("post deleted")
	return nil
}

// ========================================
// HELPERS
// ========================================

func (s *postService) ownedPost(ctx context.Context, requesterID int64, slug string) (*post.Post, error) {
	p, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsAuthor(requesterID) {
		return nil, post.ErrForbidden
	}
	return p, nil
}

func (s *postService) checkReferences(ctx context.Context, category *string, tags []string) error {
	errs := validation.Errors{}

	if category != nil {
		ok, err := s.repo.CategoryExists(ctx, *category)
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if !ok {
			errs["category"] = errors.New("unknown category")
		}
	}

	if len(tags) > 0 {
		missing, err := s.repo.MissingTags(ctx, tags)
		if err != nil {
			return fmt.Errorf("check tags: %w", err)
		}
		if len(missing) > 0 {
			errs["tags"] = fmt.Errorf("unknown tags: %s", strings.Join(missing, ", "))
		}
	}

	return errs.Filter()
}

func (s *postService) writeError(err error, op string) error {
	switch {
	case errors.Is(err, post.ErrDuplicateTitle),
		errors.Is(err, post.ErrDuplicateSlug),
		errors.Is(err, post.ErrPostNotFound),
		errors.Is(err, post.ErrUnknownReference):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
