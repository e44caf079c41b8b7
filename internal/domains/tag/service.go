package tag

import "context"

type Service interface {
	List(ctx context.Context) ([]Tag, error)
}
