package service

import (
	"context"
	"testing"
	"time"

	"astra/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		AccessSecret:  "test-access-secret-for-unit-tests",
		RefreshSecret: "test-refresh-secret-for-unit-tests",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success returns user and token pair", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.createFn = func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		}

		svc := NewAuthService(userRepo, testTokenConfig())
		pair, err := svc.Register(ctx, RegisterInput{
			Email:       "new@example.com",
			Username:    "new_user",
			Password:    "a sound passphrase",
			DisplayName: "New User",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
		assert.Equal(t, "new_user", pair.User.Username)
		// Password is stored hashed, never verbatim
		assert.NotEqual(t, "a sound passphrase", pair.User.Password)
	})

	t.Run("email taken", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
			return &models.User{ID: 2}, nil
		}

		svc := NewAuthService(userRepo, testTokenConfig())
		_, err := svc.Register(ctx, RegisterInput{Email: "taken@example.com", Username: "new_user", Password: "a sound passphrase"})
		assertConflictError(t, err)
	})

	t.Run("username taken", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
			return &models.User{ID: 2}, nil
		}

		svc := NewAuthService(userRepo, testTokenConfig())
		_, err := svc.Register(ctx, RegisterInput{Email: "new@example.com", Username: "taken", Password: "a sound passphrase"})
		assertConflictError(t, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(noopUserRepo(), testTokenConfig())
		_, err := svc.Register(ctx, RegisterInput{Email: "new@example.com"})
		assertValidationError(t, err)
	})

	t.Run("weak password", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(noopUserRepo(), testTokenConfig())
		_, err := svc.Register(ctx, RegisterInput{Email: "new@example.com", Username: "new_user", Password: "short"})
		assertValidationError(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	userRepo := noopUserRepo()
	userRepo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email == "demo@example.com" {
			return &models.User{ID: 1, Email: email, Username: "demo_user", Password: string(hashed)}, nil
		}
		return nil, nil
	}

	svc := NewAuthService(userRepo, testTokenConfig())

	t.Run("success", func(t *testing.T) {
		pair, err := svc.Login(ctx, "demo@example.com", "password")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "demo@example.com", "wrong")
		assertUnauthorizedError(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@example.com", "password")
		assertUnauthorizedError(t, err)
	})
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "demo_user"}, nil
	}
	userRepo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		return &models.User{ID: 42, Email: email, Username: "demo_user", Password: string(hashed)}, nil
	}

	svc := NewAuthService(userRepo, testTokenConfig())
	pair, err := svc.Login(context.Background(), "demo@example.com", "password")
	require.NoError(t, err)

	t.Run("access token parses to user ID", func(t *testing.T) {
		userID, err := svc.ParseAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		_, err := svc.ParseAccessToken(pair.RefreshToken)
		assertUnauthorizedError(t, err)
	})

	t.Run("refresh issues a fresh access token", func(t *testing.T) {
		accessToken, err := svc.Refresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)

		userID, err := svc.ParseAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), pair.AccessToken)
		assertUnauthorizedError(t, err)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ParseAccessToken("not.a.token")
		assertUnauthorizedError(t, err)
	})
}

func TestAuthService_ExpiredToken(t *testing.T) {
	t.Parallel()

	cfg := testTokenConfig()
	cfg.AccessTTL = -time.Minute

	userRepo := noopUserRepo()
	userRepo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		return &models.User{ID: 1, Email: email, Username: "demo_user", Password: string(hashed)}, nil
	}

	svc := NewAuthService(userRepo, cfg)
	pair, err := svc.Login(context.Background(), "demo@example.com", "password")
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(pair.AccessToken)
	assertUnauthorizedError(t, err)
}
