package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/infrastructure/email"
	"blog-backend/pkg/jwt"
)

// ========================================
// FAKES
// ========================================

type memoryRepo struct {
	mu            sync.Mutex
	users         []*user.User
	activateCalls int
	createErr     error
}

func (r *memoryRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailAlreadyExists
		}
		if existing.ActivationCode != "" && existing.ActivationCode == u.ActivationCode {
			return user.ErrActivationCodeTaken
		}
	}
	u.ID = int64(len(r.users) + 1)
	stored := *u
	r.users = append(r.users, &stored)
	return nil
}

func (r *memoryRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memoryRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memoryRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *memoryRepo) Activate(_ context.Context, code string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activateCalls++
	for _, u := range r.users {
		if code != "" && u.ActivationCode == code {
			u.IsActive = true
			u.ActivationCode = ""
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

type recordingNotifier struct {
	messages []email.Message
	err      error
}

func (n *recordingNotifier) EnqueueEmail(_ context.Context, msg email.Message) error {
	n.messages = append(n.messages, msg)
	return n.err
}

func newTestService(repo *memoryRepo, notifier *recordingNotifier) (*userService, *jwt.Manager) {
	tokens := jwt.NewManager("service-secret", 15*time.Minute, 72*time.Hour)
	svc := NewUserService(repo, tokens, notifier, Options{
		BcryptCost: bcrypt.MinCost,
		BaseURL:    "http://blog.test/",
	}).(*userService)
	return svc, tokens
}

func register(t *testing.T, svc *userService, emailAddr, password string) *user.UserDTO {
	t.Helper()
	dto, err := svc.Register(context.Background(), user.RegisterRequest{Email: emailAddr, Name: "Ann", Password: password})
	require.NoError(t, err)
	return dto
}

// ========================================
// REGISTER
// ========================================

func TestRegister(t *testing.T) {
	repo := &memoryRepo{}
	notifier := &recordingNotifier{}
	svc, _ := newTestService(repo, notifier)

	dto := register(t, svc, "  Ann@Example.com ", "s3cret-pass")

	assert.Equal(t, "ann@example.com", dto.Email)
	assert.False(t, dto.IsActive)

	require.Len(t, repo.users, 1)
	stored := repo.users[0]
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{8}$`), stored.ActivationCode)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "ann@example.com", notifier.messages[0].To)
	assert.Contains(t, notifier.messages[0].Body, "http://blog.test/activate/"+stored.ActivationCode+"/")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &memoryRepo{}
	svc, _ := newTestService(repo, &recordingNotifier{})

	register(t, svc, "ann@example.com", "s3cret-pass")

	_, err := svc.Register(context.Background(), user.RegisterRequest{Email: "ANN@example.com", Name: "Other", Password: "another-pass"})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
	assert.Len(t, repo.users, 1)
}

func TestRegisterDuplicateEmailRaceIsTranslated(t *testing.T) {
	repo := &memoryRepo{createErr: user.ErrEmailAlreadyExists}
	svc, _ := newTestService(repo, &recordingNotifier{})

	_, err := svc.Register(context.Background(), user.RegisterRequest{Email: "ann@example.com", Name: "Ann", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(&memoryRepo{}, &recordingNotifier{})

	_, err := svc.Register(context.Background(), user.RegisterRequest{
		Email:    "not-an-email",
		Name:     strings.Repeat("x", 31),
		Password: "short",
	})

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "email")
	assert.Contains(t, verrs, "name")
	assert.Contains(t, verrs, "password")
}

func TestRegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
	repo := &memoryRepo{}
	svc, _ := newTestService(repo, &recordingNotifier{})

	tests := []struct {
		name     string
		password string
	}{
		{"100 ascii characters", strings.Repeat("a", 100)},
		{"40 two-byte characters", strings.Repeat("é", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), user.RegisterRequest{
				Email:    "ann@example.com",
				Name:     "Ann",
				Password: tt.password,
			})

			var verrs validation.Errors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, "password")
		})
	}
	assert.Empty(t, repo.users)

	dto := register(t, svc, "ann@example.com", strings.Repeat("a", user.MaxPasswordBytes))
	assert.Equal(t, int64(1), dto.ID)
}

func TestRegisterSucceedsWhenEnqueueFails(t *testing.T) {
	repo := &memoryRepo{}
	svc, _ := newTestService(repo, &recordingNotifier{err: errors.New("redis down")})

	dto := register(t, svc, "ann@example.com", "s3cret-pass")
	assert.Equal(t, int64(1), dto.ID)
}

func TestRegisterRetriesActivationCodeCollision(t *testing.T) {
	repo := &memoryRepo{}
	svc, _ := newTestService(repo, &recordingNotifier{})

	codes := []string{"AAAA1111", "AAAA1111", "BBBB2222"}
	svc.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	register(t, svc, "ann@example.com", "s3cret-pass")
	register(t, svc, "bob@example.com", "s3cret-pass")

	assert.Equal(t, "BBBB2222", repo.users[1].ActivationCode)
}

func TestGenerateActivationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := generateActivationCode()
		require.NoError(t, err)
		assert.Len(t, code, 8)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45)
}

// ========================================
// ACTIVATE
// ========================================

func TestActivate(t *testing.T) {
	repo := &memoryRepo{}
	svc, _ := newTestService(repo, &recordingNotifier{})
	register(t, svc, "ann@example.com", "s3cret-pass")
	code := repo.users[0].ActivationCode

	dto, err := svc.Activate(context.Background(), code)
	require.NoError(t, err)
	assert.True(t, dto.IsActive)
	assert.Empty(t, repo.users[0].ActivationCode)

	_, err = svc.Activate(context.Background(), code)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestActivateUnknownAndEmptyCode(t *testing.T) {
	repo := &memoryRepo{}
	svc, _ := newTestService(repo, &recordingNotifier{})
	register(t, svc, "ann@example.com", "s3cret-pass")
	_, err := svc.Activate(context.Background(), repo.users[0].ActivationCode)
	require.NoError(t, err)
	calls := repo.activateCalls

	for _, code := range []string{"", "   "} {
		_, err := svc.Activate(context.Background(), code)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	}
	assert.Equal(t, calls, repo.activateCalls)

	_, err = svc.Activate(context.Background(), "NEVERSET")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

// ========================================
// LOGIN
// ========================================

func TestLoginOrderOfChecks(t *testing.T) {
	repo := &memoryRepo{}
	svc, tokens := newTestService(repo, &recordingNotifier{})

	register(t, svc, "inactive@example.com", "right-pass")
	register(t, svc, "active@example.com", "right-pass")
	_, err := svc.Activate(context.Background(), repo.users[1].ActivationCode)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		reason   string
	}{
		{"unknown email", "ghost@x.com", "right-pass", user.ReasonUnknownEmail},
		{"inactive with correct password", "inactive@example.com", "right-pass", user.ReasonInactive},
		{"inactive with wrong password", "inactive@example.com", "wrong-pass", user.ReasonBadPassword},
		{"active with wrong password", "active@example.com", "wrong-pass", user.ReasonBadPassword},
		{"active with overlong password", "active@example.com", "right-pass" + strings.Repeat("x", 100), user.ReasonBadPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), user.LoginRequest{Email: tt.email, Password: tt.password})

			var credErr *user.InvalidCredentialsError
			require.ErrorAs(t, err, &credErr)
			assert.Equal(t, tt.reason, credErr.Reason)
			assert.ErrorIs(t, err, user.ErrInvalidCredentials)
		})
	}

	t.Run("success", func(t *testing.T) {
		pair, err := svc.Login(context.Background(), user.LoginRequest{Email: "Active@Example.com", Password: "right-pass"})
		require.NoError(t, err)
		assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

		claims, err := tokens.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "2", claims.Subject)
	})
}

// ========================================
// REFRESH
// ========================================

func TestRefresh(t *testing.T) {
	repo := &memoryRepo{}
	svc, tokens := newTestService(repo, &recordingNotifier{})
	register(t, svc, "ann@example.com", "right-pass")

	inactiveRefresh, err := tokens.IssueRefresh("1")
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), user.RefreshTokenRequest{RefreshToken: inactiveRefresh})
	assert.ErrorIs(t, err, user.ErrInvalidToken)

	_, err = svc.Activate(context.Background(), repo.users[0].ActivationCode)
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), user.LoginRequest{Email: "ann@example.com", Password: "right-pass"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), user.RefreshTokenRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, refreshed.RefreshToken)

	_, err = svc.Refresh(context.Background(), user.RefreshTokenRequest{RefreshToken: pair.AccessToken})
	assert.ErrorIs(t, err, user.ErrInvalidToken)

	ghost, err := tokens.IssueRefresh("99")
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), user.RefreshTokenRequest{RefreshToken: ghost})
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}
