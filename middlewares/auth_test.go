package middlewares

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSessionRoundTrip(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	token, err := GenerateSession("staff@example.com", RoleAnalyst)
	require.NoError(t, err)

	user := VerifySession(token)
	require.NotNil(t, user)
	assert.Equal(t, "staff@example.com", user.Email)
	assert.Equal(t, RoleAnalyst, user.Role)
}

func TestVerifySession_WrongSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	token, err := GenerateSession("staff@example.com", RoleAdmin)
	require.NoError(t, err)

	// Secret rotation: tokens signed under the old secret become "no session".
	t.Setenv("AUTH_SECRET", strings.Repeat("x", 32))
	assert.Nil(t, VerifySession(token))
}

func TestVerifySession_Expired(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	claims := &Claims{
		Email: "staff@example.com",
		Role:  RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-9 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.Nil(t, VerifySession(token))
}

func TestVerifySession_Malformed(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	assert.Nil(t, VerifySession(""))
	assert.Nil(t, VerifySession("garbage"))
	assert.Nil(t, VerifySession("a.b.c"))
}

func TestVerifySession_UnknownRole(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	claims := &Claims{
		Email: "staff@example.com",
		Role:  "SUPERUSER",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.Nil(t, VerifySession(token))
}

func TestVerifySession_NoSecretConfigured(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	assert.Nil(t, VerifySession("anything"))
}

func TestCanMutate(t *testing.T) {
	assert.True(t, CanMutate(RoleAdmin))
	assert.True(t, CanMutate(RoleAnalyst))
	assert.False(t, CanMutate(RoleViewer))
	assert.False(t, CanMutate(""))
	assert.False(t, CanMutate("SUPERUSER"))
}
