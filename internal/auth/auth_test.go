package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitbook/internal/model"
)

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager("", "fitbook", time.Hour)
	assert.EqualError(t, err, "jwt secret is required")

	_, err = NewTokenManager("secret", "fitbook", 0)
	assert.Error(t, err)
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m, err := NewTokenManager("secret", "fitbook", time.Hour)
	require.NoError(t, err)

	user := &model.User{ID: "user-1", Email: "ana@example.com"}
	raw, issued, err := m.Issue(user, model.RoleTrainer)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, model.RoleTrainer, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenManager_ParseRejects(t *testing.T) {
	m, err := NewTokenManager("secret", "fitbook", time.Hour)
	require.NoError(t, err)
	user := &model.User{ID: "user-1", Email: "ana@example.com"}

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, _ := NewTokenManager("other", "fitbook", time.Hour)
		raw, _, err := other.Issue(user, model.RoleClient)
		require.NoError(t, err)

		_, err = m.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		other, _ := NewTokenManager("secret", "someone-else", time.Hour)
		raw, _, err := other.Issue(user, model.RoleClient)
		require.NoError(t, err)

		_, err = m.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past, _ := NewTokenManager("secret", "fitbook", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		raw, _, err := past.Issue(user, model.RoleClient)
		require.NoError(t, err)

		_, err = m.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ID:        "jti",
			Issuer:    "fitbook",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	ok, err := CheckPassword(hash, "s3cret!")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("not-a-hash", "s3cret!")
	assert.Error(t, err)
}
