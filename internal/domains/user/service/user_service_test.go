package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bookworm-backend/internal/domains/user/model"
	"bookworm-backend/pkg/jwt"
)

type fakeUserRepository struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepository) Create(ctx context.Context, user *model.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return model.ErrDuplicateUser
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == identifier || user.Email == identifier {
			clone := *user
			return &clone, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return model.ErrUserNotFound
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func newTestUserService() (*userService, *fakeUserRepository, *jwt.Manager) {
	repo := newFakeUserRepository()
	manager := jwt.NewManager("test-secret", time.Hour)
	svc := NewUserService(repo, manager).(*userService)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, manager
}

func strPtr(s string) *string { return &s }

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, repo, manager := newTestUserService()

	auth, err := svc.Register(ctx, model.RegisterRequest{
		Username: "booklover",
		Email:    "booklover@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "booklover", auth.User.Username)
	require.NotNil(t, auth.User.DisplayName)
	assert.Equal(t, "booklover", *auth.User.DisplayName)

	// Token must carry the new account's identity.
	claims, err := manager.VerifyToken(auth.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID.String(), claims.UserID)
	assert.Equal(t, "booklover", claims.Username)

	// Stored hash must verify against the original password.
	stored, err := repo.GetByID(ctx, auth.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct-horse")))
}

func TestRegister_DuplicateConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestUserService()

	_, err := svc.Register(ctx, model.RegisterRequest{
		Username: "booklover",
		Email:    "booklover@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.RegisterRequest{
		Username: "booklover",
		Email:    "other@example.com",
		Password: "correct-horse",
	})

	var usrErr *model.UserError
	require.ErrorAs(t, err, &usrErr)
	assert.Equal(t, model.ErrCodeDuplicateUser, usrErr.Code)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestUserService()

	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"short username", model.RegisterRequest{Username: "ab", Email: "a@b.com", Password: "longenough"}},
		{"bad email", model.RegisterRequest{Username: "booklover", Email: "not-an-email", Password: "longenough"}},
		{"short password", model.RegisterRequest{Username: "booklover", Email: "a@b.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)

			var usrErr *model.UserError
			require.ErrorAs(t, err, &usrErr)
			assert.Equal(t, model.ErrCodeInvalidInput, usrErr.Code)
		})
	}
}

func TestLogin_ByUsernameAndEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestUserService()

	_, err := svc.Register(ctx, model.RegisterRequest{
		Username: "booklover",
		Email:    "booklover@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	for _, identifier := range []string{"booklover", "booklover@example.com"} {
		auth, err := svc.Login(ctx, model.LoginRequest{Username: identifier, Password: "correct-horse"})
		require.NoError(t, err)
		assert.Equal(t, "booklover", auth.User.Username)
		assert.NotEmpty(t, auth.Token)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestUserService()

	_, err := svc.Register(ctx, model.RegisterRequest{
		Username: "booklover",
		Email:    "booklover@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  model.LoginRequest
	}{
		{"wrong password", model.LoginRequest{Username: "booklover", Password: "wrong"}},
		{"unknown user", model.LoginRequest{Username: "nobody", Password: "correct-horse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.req)

			var usrErr *model.UserError
			require.ErrorAs(t, err, &usrErr)
			assert.Equal(t, model.ErrCodeInvalidCredentials, usrErr.Code)
		})
	}
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestUserService()

	auth, err := svc.Register(ctx, model.RegisterRequest{
		Username:    "booklover",
		Email:       "booklover@example.com",
		Password:    "correct-horse",
		DisplayName: strPtr("Book Lover"),
	})
	require.NoError(t, err)

	profile, err := svc.UpdateProfile(ctx, auth.User.ID, model.UpdateProfileRequest{
		Bio: strPtr("Mostly sci-fi."),
	})

	require.NoError(t, err)
	require.NotNil(t, profile.Bio)
	assert.Equal(t, "Mostly sci-fi.", *profile.Bio)
	// Display name untouched by a bio-only update.
	require.NotNil(t, profile.DisplayName)
	assert.Equal(t, "Book Lover", *profile.DisplayName)
}

func TestGetProfile_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestUserService()

	_, err := svc.GetProfile(ctx, uuid.New())

	var usrErr *model.UserError
	require.ErrorAs(t, err, &usrErr)
	assert.Equal(t, model.ErrCodeUserNotFound, usrErr.Code)
}
