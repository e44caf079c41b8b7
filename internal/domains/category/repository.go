package category

import "context"

type Repository interface {
	// List returns all categories ordered by title.
	List(ctx context.Context) ([]Category, error)
}
