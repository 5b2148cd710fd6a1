package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

// writeErr sends JSON { "error": message, "code": errCode }. If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	default:
		return ErrCodeInternal
	}
}

// writeDomainErr maps the error taxonomy onto HTTP status codes. Errors
// outside the taxonomy are treated as internal and their detail withheld.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch domerrors.Kind(err) {
	case domerrors.ErrUnauthenticated:
		errCode := ErrCodeUnauthorized
		if errors.Is(err, domerrors.ErrTokenRevoked) {
			errCode = ErrCodeTokenRevoked
		} else if errors.Is(err, domerrors.ErrInvalidToken) {
			errCode = ErrCodeInvalidToken
		} else if errors.Is(err, domerrors.ErrInvalidCredentials) {
			errCode = ErrCodeInvalidCredentials
		}
		writeErr(w, http.StatusUnauthorized, errCode, err.Error())
	case domerrors.ErrForbidden:
		writeErr(w, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case domerrors.ErrNotFound:
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case domerrors.ErrConflict:
		writeErr(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case domerrors.ErrInvalidOperation:
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}

// writeNotifyErr reports a mutation that persisted but whose notification
// dispatch failed. The state change is kept; the caller gets a 500 with the
// notify_failed code so the failure is observable. Returns true when it
// wrote the response.
func writeNotifyErr(w http.ResponseWriter, log zerolog.Logger, notifyErr error, what string) bool {
	if notifyErr == nil {
		return false
	}
	log.Warn().Err(notifyErr).Msg(what + " but notification dispatch failed")
	writeErr(w, http.StatusInternalServerError, ErrCodeNotifyFailed, what+" but the notification could not be sent")
	return true
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
