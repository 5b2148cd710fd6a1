package ports

import (
	"time"

	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
)

// PasswordHasher hashes and verifies passwords (Argon2id).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenKind distinguishes the two credential lifetimes. Access and refresh
// tokens are signed with distinct secrets, so a refresh token never verifies
// as an access token or vice versa.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Claims are the verified contents of a token.
type Claims struct {
	UserID    domain.UserID
	Username  string
	Email     string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies compact credentials embedding subject id,
// username and email. Verify here is purely cryptographic; the revocation
// list check lives in the token service on top of it.
type TokenIssuer interface {
	Issue(user *domain.User, kind TokenKind) (string, error)
	Verify(token string, kind TokenKind) (*Claims, error)
}
