package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/auth"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
)

// AuthValidator validates the bearer token (signature, expiry, revocation
// list) and loads the account into the request context (see UserFromContext).
type AuthValidator struct {
	tokens *auth.Tokens
	users  ports.UserRepository
}

func NewAuthValidator(tokens *auth.Tokens, users ports.UserRepository) *AuthValidator {
	return &AuthValidator{tokens: tokens, users: users}
}

func (m *AuthValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeErr(w, http.StatusUnauthorized, "missing or invalid authorization")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := m.tokens.Verify(r.Context(), tokenString, ports.TokenAccess)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "invalid token")
			return
		}
		// Claims may outlive the account; a deleted user's token is dead.
		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "internal error")
			return
		}
		if user == nil {
			writeErr(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func writeErr(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
