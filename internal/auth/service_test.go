package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/boardvault/internal/domain"
)

func newTestService(repo *mockUserRepo) *Service {
	return NewService(repo, testSecret, 15*time.Minute, 7*24*time.Hour)
}

// ---------------------------------------------------------------------------
// Register / Login
// ---------------------------------------------------------------------------

func TestRegister(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()

	t.Run("new users start as viewers", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByEmailFunc: func(_ context.Context, _ uuid.UUID, _ string) (*domain.User, error) {
				return nil, domain.ErrNotFound
			},
			createFunc: func(_ context.Context, _ *domain.User) error { return nil },
		}
		svc := newTestService(repo)

		user, err := svc.Register(context.Background(), orgID, "kim@example.com", "correct horse battery", "Kim")
		require.NoError(t, err)

		assert.Equal(t, domain.RoleViewer, user.Role)
		assert.Equal(t, orgID, user.OrgID)
		assert.NotEqual(t, "correct horse battery", user.PasswordHash)
		assert.Contains(t, user.PasswordHash, "$", "salt$hash format")
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByEmailFunc: func(_ context.Context, _ uuid.UUID, _ string) (*domain.User, error) {
				return &domain.User{ID: uuid.New()}, nil
			},
		}
		svc := newTestService(repo)

		_, err := svc.Register(context.Background(), orgID, "kim@example.com", "pw", "Kim")
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()

	registeredUser := func(t *testing.T, password string) *domain.User {
		t.Helper()
		hash, err := hashPassword(password)
		require.NoError(t, err)
		return &domain.User{
			ID:           uuid.New(),
			OrgID:        orgID,
			Email:        "kim@example.com",
			PasswordHash: hash,
			Role:         domain.RoleEditor,
		}
	}

	t.Run("valid credentials yield both tokens", func(t *testing.T) {
		t.Parallel()

		user := registeredUser(t, "correct horse battery")
		repo := &mockUserRepo{
			getByEmailFunc: func(_ context.Context, _ uuid.UUID, _ string) (*domain.User, error) {
				return user, nil
			},
		}
		svc := newTestService(repo)

		access, refresh, err := svc.Login(context.Background(), orgID, "kim@example.com", "correct horse battery")
		require.NoError(t, err)
		require.NotEmpty(t, access)
		require.NotEmpty(t, refresh)

		claims, err := ValidateToken(testSecret, access)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, string(domain.RoleEditor), claims.Role)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		t.Parallel()

		user := registeredUser(t, "correct horse battery")
		repo := &mockUserRepo{
			getByEmailFunc: func(_ context.Context, _ uuid.UUID, _ string) (*domain.User, error) {
				return user, nil
			},
		}
		svc := newTestService(repo)

		_, _, err := svc.Login(context.Background(), orgID, "kim@example.com", "wrong password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email rejected with the same error", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByEmailFunc: func(_ context.Context, _ uuid.UUID, _ string) (*domain.User, error) {
				return nil, domain.ErrNotFound
			},
		}
		svc := newTestService(repo)

		_, _, err := svc.Login(context.Background(), orgID, "nobody@example.com", "pw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

// ---------------------------------------------------------------------------
// RefreshToken
// ---------------------------------------------------------------------------

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	userID := uuid.New()

	t.Run("refresh issues a new access token with the current role", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.User, error) {
				// Role was promoted since the refresh token was issued.
				return &domain.User{ID: userID, OrgID: orgID, Role: domain.RoleAdmin}, nil
			},
		}
		svc := newTestService(repo)

		refresh, err := IssueRefreshToken(testSecret, orgID, userID, domain.RoleViewer, time.Hour)
		require.NoError(t, err)

		access, err := svc.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)

		claims, err := ValidateToken(testSecret, access)
		require.NoError(t, err)
		assert.Equal(t, "access", claims.TokenType)
		assert.Equal(t, string(domain.RoleAdmin), claims.Role, "new token reflects the current role")
	})

	t.Run("access token cannot be used as refresh token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&mockUserRepo{})

		access, err := IssueAccessToken(testSecret, orgID, userID, domain.RoleAdmin, time.Hour)
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("deleted user cannot refresh", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.User, error) {
				return nil, domain.ErrNotFound
			},
		}
		svc := newTestService(repo)

		refresh, err := IssueRefreshToken(testSecret, orgID, userID, domain.RoleViewer, time.Hour)
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), refresh)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

// ---------------------------------------------------------------------------
// API keys
// ---------------------------------------------------------------------------

func TestAPIKeys(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	userID := uuid.New()

	t.Run("generate stores the hash, never the raw key", func(t *testing.T) {
		t.Parallel()

		var stored *domain.APIKey
		repo := &mockUserRepo{
			createAPIKeyFunc: func(_ context.Context, key *domain.APIKey) error {
				stored = key
				return nil
			},
		}
		svc := newTestService(repo)

		rawKey, key, err := svc.GenerateAPIKey(context.Background(), orgID, userID, "ci", nil)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(rawKey, "bv_"))
		assert.Len(t, rawKey, 3+32)
		assert.Equal(t, rawKey[:8], key.Prefix)

		require.NotNil(t, stored)
		assert.NotContains(t, stored.KeyHash, rawKey)
		assert.Len(t, stored.KeyHash, 64, "hex SHA-256")
	})

	t.Run("validate round trip", func(t *testing.T) {
		t.Parallel()

		var stored *domain.APIKey
		repo := &mockUserRepo{
			createAPIKeyFunc: func(_ context.Context, key *domain.APIKey) error {
				stored = key
				return nil
			},
			getAPIKeyByPrefixFunc: func(_ context.Context, _ uuid.UUID, prefix string) (*domain.APIKey, error) {
				if stored != nil && stored.Prefix == prefix {
					return stored, nil
				}
				return nil, domain.ErrNotFound
			},
			getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.User, error) {
				return &domain.User{ID: userID, OrgID: orgID, Role: domain.RoleEditor}, nil
			},
		}
		svc := newTestService(repo)

		rawKey, _, err := svc.GenerateAPIKey(context.Background(), orgID, userID, "ci", nil)
		require.NoError(t, err)

		user, key, err := svc.ValidateAPIKey(context.Background(), rawKey)
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, stored.ID, key.ID)
	})

	t.Run("tampered key rejected", func(t *testing.T) {
		t.Parallel()

		var stored *domain.APIKey
		repo := &mockUserRepo{
			createAPIKeyFunc: func(_ context.Context, key *domain.APIKey) error {
				stored = key
				return nil
			},
			getAPIKeyByPrefixFunc: func(_ context.Context, _ uuid.UUID, _ string) (*domain.APIKey, error) {
				return stored, nil
			},
		}
		svc := newTestService(repo)

		rawKey, _, err := svc.GenerateAPIKey(context.Background(), orgID, userID, "ci", nil)
		require.NoError(t, err)

		tampered := rawKey[:len(rawKey)-1] + "x"
		_, _, err = svc.ValidateAPIKey(context.Background(), tampered)
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("expired key rejected", func(t *testing.T) {
		t.Parallel()

		var stored *domain.APIKey
		repo := &mockUserRepo{
			createAPIKeyFunc: func(_ context.Context, key *domain.APIKey) error {
				expired := time.Now().Add(-time.Hour)
				key.ExpiresAt = &expired
				stored = key
				return nil
			},
			getAPIKeyByPrefixFunc: func(_ context.Context, _ uuid.UUID, _ string) (*domain.APIKey, error) {
				return stored, nil
			},
		}
		svc := newTestService(repo)

		rawKey, _, err := svc.GenerateAPIKey(context.Background(), orgID, userID, "ci", nil)
		require.NoError(t, err)

		_, _, err = svc.ValidateAPIKey(context.Background(), rawKey)
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("too-short key rejected", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&mockUserRepo{})
		_, _, err := svc.ValidateAPIKey(context.Background(), "bv_")
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
	})
}

// ---------------------------------------------------------------------------
// Password hashing
// ---------------------------------------------------------------------------

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := hashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, verifyPassword("hunter2", hash))
	assert.False(t, verifyPassword("hunter3", hash))
	assert.False(t, verifyPassword("hunter2", "malformed"))
	assert.False(t, verifyPassword("hunter2", ""))

	// Random salt: hashing the same password twice yields different encodings.
	hash2, err := hashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}
