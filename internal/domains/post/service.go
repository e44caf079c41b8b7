package post

import (
	"context"

	"blog-backend/internal/shared/pagination"
)

type Service interface {
	List(ctx context.Context, req ListPostsRequest) (*pagination.Page[Post], error)
	Get(ctx context.Context, slug string) (*Post, error)
	Create(ctx context.Context, authorID int64, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, requesterID int64, slug string, req UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, requesterID int64, slug string) error
}
