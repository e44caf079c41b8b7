package user

import (
	"context"

	"blog-backend/internal/infrastructure/email"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Activate(ctx context.Context, code string) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, req RefreshTokenRequest) (*TokenPair, error)
}

// Notifier hands outgoing email to the work queue.
type Notifier interface {
	EnqueueEmail(ctx context.Context, msg email.Message) error
}
