package tag

import "context"

type Repository interface {
	// List returns all tags ordered by title.
	List(ctx context.Context) ([]Tag, error)
}
