package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/educenter/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager issues and verifies access and refresh tokens.
// Each kind is signed with its own secret so one can never pass for the other.
type TokenManager struct {
	accessSecret       []byte
	refreshSecret      []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	now                func() time.Time
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:       []byte(accessSecret),
		refreshSecret:      []byte(refreshSecret),
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
		now:                time.Now,
	}
}

// GenerateAccessToken creates a short-lived token carrying id, role and status
func (tm *TokenManager) GenerateAccessToken(user *models.User) (string, error) {
	claims := &models.TokenClaims{
		Type:             models.TokenTypeAccess,
		UserID:           user.ID,
		Role:             user.Role,
		Status:           user.Status,
		RegisteredClaims: tm.registeredClaims(tm.accessTokenExpiry),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// GenerateRefreshToken creates a long-lived token carrying only the user id
func (tm *TokenManager) GenerateRefreshToken(user *models.User) (string, error) {
	claims := &models.TokenClaims{
		Type:             models.TokenTypeRefresh,
		UserID:           user.ID,
		RegisteredClaims: tm.registeredClaims(tm.refreshTokenExpiry),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return tokenString, nil
}

// ValidateAccessToken verifies a token signed with the access secret
func (tm *TokenManager) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	return tm.verify(tokenString, tm.accessSecret, models.TokenTypeAccess)
}

// ValidateRefreshToken verifies a token signed with the refresh secret
func (tm *TokenManager) ValidateRefreshToken(tokenString string) (*models.TokenClaims, error) {
	return tm.verify(tokenString, tm.refreshSecret, models.TokenTypeRefresh)
}

func (tm *TokenManager) registeredClaims(expiry time.Duration) jwt.RegisteredClaims {
	now := tm.now()
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
}

// verify parses tokenString with secret and maps jwt failures to the
// ErrTokenExpired, ErrInvalidSignature and ErrInvalidToken sentinels.
func (tm *TokenManager) verify(tokenString string, secret []byte, kind string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, models.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, models.ErrInvalidSignature
		default:
			return nil, models.ErrInvalidToken
		}
	}

	if !token.Valid {
		return nil, models.ErrInvalidToken
	}

	if claims.Type != kind || claims.UserID == 0 {
		return nil, models.ErrInvalidToken
	}

	return claims, nil
}
