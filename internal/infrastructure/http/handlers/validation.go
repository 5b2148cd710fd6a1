package handlers

import (
	"net/http"
	"strconv"
	"strings"
)

// Validation limits.
const (
	MaxEmailLength    = 254
	MaxPasswordLength = 128
	MaxUsernameLength = 32
)

// SanitizeEmail trims and lowercases email; returns empty if invalid length.
func SanitizeEmail(email string) string {
	s := strings.TrimSpace(strings.ToLower(email))
	if len(s) > MaxEmailLength {
		return ""
	}
	return s
}

// SanitizePassword trims password; returns empty if over max length.
func SanitizePassword(password string) string {
	s := strings.TrimSpace(password)
	if len(s) > MaxPasswordLength {
		return ""
	}
	return s
}

// SanitizeUsername trims and lowercases username; returns empty if invalid length.
func SanitizeUsername(username string) string {
	s := strings.TrimSpace(strings.ToLower(username))
	if len(s) > MaxUsernameLength {
		return ""
	}
	return s
}

// parsePagination reads limit/offset query params with clamped defaults.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
