package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/educenter/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret-for-tests-0123456789"
	testRefreshSecret = "refresh-secret-for-tests-012345678"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager(testAccessSecret, testRefreshSecret, 15*time.Minute, 7*24*time.Hour)
}

func activeUser() *models.User {
	return &models.User{ID: 42, Email: "a@x.com", Role: models.RoleUser, Status: models.StatusActive}
}

func TestTokenManager_AccessToken_RoundTrip(t *testing.T) {
	tm := newTestTokenManager()

	token, err := tm.GenerateAccessToken(activeUser())
	require.NoError(t, err)

	claims, err := tm.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, models.StatusActive, claims.Status)
	assert.Equal(t, models.TokenTypeAccess, claims.Type)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_RefreshToken_CarriesOnlyID(t *testing.T) {
	tm := newTestTokenManager()

	token, err := tm.GenerateRefreshToken(activeUser())
	require.NoError(t, err)

	claims, err := tm.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Empty(t, claims.Role)
	assert.Empty(t, claims.Status)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_KindsAreNotSubstitutable(t *testing.T) {
	tm := newTestTokenManager()

	access, err := tm.GenerateAccessToken(activeUser())
	require.NoError(t, err)
	refresh, err := tm.GenerateRefreshToken(activeUser())
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, models.ErrInvalidSignature)

	_, err = tm.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, models.ErrInvalidSignature)
}

func TestTokenManager_TypeClaimChecked(t *testing.T) {
	tm := newTestTokenManager()

	// A refresh-typed payload signed with the access secret is still rejected.
	claims := &models.TokenClaims{
		Type:   models.TokenTypeRefresh,
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := newTestTokenManager()
	tm.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := tm.GenerateAccessToken(activeUser())
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ValidateAccessToken(token)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestTokenManager_Tampered(t *testing.T) {
	tm := newTestTokenManager()

	token, err := tm.GenerateAccessToken(activeUser())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.ValidateAccessToken(tampered)
	assert.ErrorIs(t, err, models.ErrInvalidSignature)
}

func TestTokenManager_Malformed(t *testing.T) {
	tm := newTestTokenManager()

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := tm.ValidateAccessToken(token)
		assert.ErrorIs(t, err, models.ErrInvalidToken, token)
	}
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	tm := newTestTokenManager()

	claims := &models.TokenClaims{
		Type:   models.TokenTypeAccess,
		UserID: 1,
		Role:   models.RoleAdmin,
		Status: models.StatusActive,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(token)
	assert.Error(t, err)
}
