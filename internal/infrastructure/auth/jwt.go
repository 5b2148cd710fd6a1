package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

// TokenIssuer implements ports.TokenIssuer with HS256. Access and refresh
// tokens carry the same claim shape but are signed with distinct secrets and
// lifetimes, so one kind never verifies as the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

type userClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewTokenIssuer(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration, issuer string) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}
}

func (t *TokenIssuer) Issue(user *domain.User, kind ports.TokenKind) (string, error) {
	secret, ttl, err := t.keyFor(kind)
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := userClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: user.Username,
		Email:    user.Email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (t *TokenIssuer) Verify(token string, kind ports.TokenKind) (*ports.Claims, error) {
	secret, _, err := t.keyFor(kind)
	if err != nil {
		return nil, err
	}
	parsed, err := jwt.ParseWithClaims(token, &userClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*userClaims)
	if !ok || !parsed.Valid {
		return nil, domerrors.ErrInvalidToken
	}
	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &ports.Claims{
		UserID:    domain.NewUserID(sub),
		Username:  claims.Username,
		Email:     claims.Email,
		ExpiresAt: expiresAt,
	}, nil
}

func (t *TokenIssuer) keyFor(kind ports.TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case ports.TokenAccess:
		return t.accessSecret, t.accessTTL, nil
	case ports.TokenRefresh:
		return t.refreshSecret, t.refreshTTL, nil
	}
	return nil, 0, fmt.Errorf("unknown token kind %q", kind)
}

var _ ports.TokenIssuer = (*TokenIssuer)(nil)
