package auth

import (
	"context"
	"time"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

// Blacklist key prefixes. Kept distinct per token kind so a revoked access
// token can never shadow a refresh token and vice versa.
const (
	blacklistAccessPrefix  = "bl_access_"
	blacklistRefreshPrefix = "bl_refresh_"
)

// Tokens is the token service: issuance through the signing issuer plus the
// shared revocation list. Every verification consults the list, so a revoked
// token is rejected on any instance even before its own expiry.
type Tokens struct {
	issuer ports.TokenIssuer
	store  ports.KeyedStore
}

func NewTokens(issuer ports.TokenIssuer, store ports.KeyedStore) *Tokens {
	return &Tokens{issuer: issuer, store: store}
}

// TokenPair is one access token and one refresh token for the same user.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// IssuePair signs a fresh access/refresh pair for user.
func (s *Tokens) IssuePair(user *domain.User) (*TokenPair, error) {
	access, err := s.issuer.Issue(user, ports.TokenAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.Issue(user, ports.TokenRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks signature and expiry, then the revocation list. Both failure
// modes surface as unauthenticated.
func (s *Tokens) Verify(ctx context.Context, token string, kind ports.TokenKind) (*ports.Claims, error) {
	if token == "" {
		return nil, domerrors.ErrNoCredential
	}
	claims, err := s.issuer.Verify(token, kind)
	if err != nil {
		return nil, err
	}
	revoked, err := s.store.Get(ctx, blacklistKey(kind, token))
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if revoked != "" {
		return nil, domerrors.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke places token on the revocation list with a TTL equal to its
// remaining lifetime, so the list self-prunes. Revoking an already revoked,
// malformed or expired token is a no-op.
func (s *Tokens) Revoke(ctx context.Context, token string, kind ports.TokenKind) error {
	if token == "" {
		return nil
	}
	claims, err := s.issuer.Verify(token, kind)
	if err != nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.store.Set(ctx, blacklistKey(kind, token), "revoked", ttl); err != nil {
		return domerrors.ErrDependency
	}
	return nil
}

func blacklistKey(kind ports.TokenKind, token string) string {
	if kind == ports.TokenRefresh {
		return blacklistRefreshPrefix + token
	}
	return blacklistAccessPrefix + token
}
