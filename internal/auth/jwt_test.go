package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/boardvault/internal/domain"
)

const testSecret = "test-secret-key-for-jwt-signing-0000"

func TestIssueAndValidateToken(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	userID := uuid.New()

	t.Run("access token round trip", func(t *testing.T) {
		t.Parallel()

		token, err := IssueAccessToken(testSecret, orgID, userID, domain.RoleAdmin, time.Hour)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := ValidateToken(testSecret, token)
		require.NoError(t, err)

		assert.Equal(t, orgID.String(), claims.OrgID)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, string(domain.RoleAdmin), claims.Role)
		assert.Equal(t, "access", claims.TokenType)
		assert.Equal(t, "boardvault", claims.Issuer)
	})

	t.Run("refresh token carries its type", func(t *testing.T) {
		t.Parallel()

		token, err := IssueRefreshToken(testSecret, orgID, userID, domain.RoleViewer, 24*time.Hour)
		require.NoError(t, err)

		claims, err := ValidateToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, "refresh", claims.TokenType)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		t.Parallel()

		token, err := IssueAccessToken(testSecret, orgID, userID, domain.RoleAdmin, time.Hour)
		require.NoError(t, err)

		_, err = ValidateToken("a-completely-different-secret-value", token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		t.Parallel()

		token, err := IssueAccessToken(testSecret, orgID, userID, domain.RoleAdmin, -time.Minute)
		require.NoError(t, err)

		_, err = ValidateToken(testSecret, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ValidateToken(testSecret, "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
