package post

import "errors"

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrForbidden        = errors.New("only the author can modify this post")
	ErrDuplicateTitle   = errors.New("a post with this title already exists")
	ErrDuplicateSlug    = errors.New("a post with the same slug already exists")
	ErrUnknownReference = errors.New("referenced category or tag does not exist")
)
