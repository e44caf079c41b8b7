package service

import (
	"context"
	"fmt"

	"blog-backend/internal/domains/tag"
)

type tagService struct {
	repo tag.Repository
}

func NewTagService(repo tag.Repository) tag.Service {
	return &tagService{repo: repo}
}

func (s *tagService) List(ctx context.Context) ([]tag.Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if tags == nil {
		tags = []tag.Tag{}
	}
	return tags, nil
}
