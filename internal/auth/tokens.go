package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	TokenType string `json:"token_type"`
	UserID    int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 access/refresh token pairs.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssuePair returns a fresh refresh token and an access token for the account.
func (i *Issuer) IssuePair(accountID int64) (domain.TokenPair, error) {
	refresh, err := i.sign(TokenTypeRefresh, accountID, i.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	access, err := i.sign(TokenTypeAccess, accountID, i.accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Refresh: refresh, Access: access}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (i *Issuer) Refresh(refreshToken string) (string, error) {
	claims, err := i.Parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return i.sign(TokenTypeAccess, claims.UserID, i.accessTTL)
}

// Parse verifies signature, expiry and token type. Every failure is
// reported as domain.ErrInvalidToken.
func (i *Issuer) Parse(tokenStr, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: expected %s token, got %q", domain.ErrInvalidToken, tokenType, claims.TokenType)
	}
	return claims, nil
}

func (i *Issuer) sign(tokenType string, accountID int64, ttl time.Duration) (string, error) {
	now := i.now()
	claims := &Claims{
		TokenType: tokenType,
		UserID:    accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return s, nil
}

