package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/infrastructure/email"
	"blog-backend/pkg/jwt"
)

const (
	activationCodeLength   = 8
	activationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	maxCodeAttempts        = 3
)

// Options configure the user service.
type Options struct {
	BcryptCost int
	BaseURL    string // activation links are BaseURL + "/activate/<code>/"
}

type userService struct {
	repo     user.Repository
	tokens   *jwt.Manager
	notifier user.Notifier
	opts     Options
	newCode  func() (string, error)
}

func NewUserService(repo user.Repository, tokens *jwt.Manager, notifier user.Notifier, opts Options) user.Service {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	return &userService{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		opts:     opts,
		newCode:  generateActivationCode,
	}
}

// ========================================
// REGISTER
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	// 1. Normalize and validate
	req.Email = user.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Email must be free
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	// 3. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newUser := &user.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hash),
		IsActive: false,
	}

	// 4. Persist with a fresh activation code; a code collision retries with a new one
	for attempt := 1; ; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("generate activation code: %w", err)
		}
		newUser.ActivationCode = code

		err = s.repo.Create(ctx, newUser)
		if err == nil {
			break
		}
		if errors.Is(err, user.ErrActivationCodeTaken) && attempt < maxCodeAttempts {
			continue
		}
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// 5. Activation email, fire-and-forget
	s.sendActivationEmail(ctx, newUser)

	dto := newUser.ToDTO()
	return &dto, nil
}

func (s *userService) sendActivationEmail(ctx context.Context, u *user.User) {
	link := fmt.Sprintf("%s/activate/%s/", s.opts.BaseURL, u.ActivationCode)
	msg := email.ActivationMessage(u.Email, u.Name, link)

	if err := s.notifier.EnqueueEmail(context.WithoutCancel(ctx), msg); err != nil {
		log.Error().Err(err).Int64("user_id", u.ID).Msg("failed to enqueue activation email")
	}
}

// ========================================
// ACTIVATE
// ========================================

func (s *userService) Activate(ctx context.Context, code string) (*user.UserDTO, error) {
	// Consumed codes are stored as '', so an empty code must never reach the store
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, user.ErrUserNotFound
	}

	u, err := s.repo.Activate(ctx, code)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("activate user: %w", err)
	}

	log.Info().Int64("user_id", u.ID).Msg("user activated")

	dto := u.ToDTO()
	return &dto, nil
}

// ========================================
// LOGIN
// ========================================

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.TokenPair, error) {
	req.Email = user.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 1. Email exists
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, &user.InvalidCredentialsError{Reason: user.ReasonUnknownEmail}
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	// 2. Password matches; nothing longer than bcrypt's input limit was ever stored
	if len(req.Password) > user.MaxPasswordBytes ||
		bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return nil, &user.InvalidCredentialsError{Reason: user.ReasonBadPassword}
	}

	// 3. Account is active
	if !u.IsActive {
		return nil, &user.InvalidCredentialsError{Reason: user.ReasonInactive}
	}

	return s.issuePair(u.ID)
}

// ========================================
// REFRESH
// ========================================

func (s *userService) Refresh(ctx context.Context, req user.RefreshTokenRequest) (*user.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !u.IsActive {
		return nil, user.ErrInvalidToken
	}

	return s.issuePair(u.ID)
}

func (s *userService) issuePair(userID int64) (*user.TokenPair, error) {
	subject := strconv.FormatInt(userID, 10)

	access, err := s.tokens.IssueAccess(subject)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(subject)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &user.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func generateActivationCode() (string, error) {
	limit := big.NewInt(int64(len(activationCodeAlphabet)))
	code := make([]byte, activationCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		code[i] = activationCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
