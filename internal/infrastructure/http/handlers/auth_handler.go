package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/auth"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/http/middleware"
)

type AuthHandler struct {
	register       *auth.Register
	verifyEmail    *auth.VerifyEmail
	login          *auth.Login
	refresh        *auth.Refresh
	logout         *auth.Logout
	forgotPassword *auth.ForgotPassword
	resetPassword  *auth.ResetPassword
	baseURL        string
	validate       *validator.Validate
	log            zerolog.Logger
}

func NewAuthHandler(register *auth.Register, verifyEmail *auth.VerifyEmail, login *auth.Login, refresh *auth.Refresh, logout *auth.Logout, forgotPassword *auth.ForgotPassword, resetPassword *auth.ResetPassword, baseURL string, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		register:       register,
		verifyEmail:    verifyEmail,
		login:          login,
		refresh:        refresh,
		logout:         logout,
		forgotPassword: forgotPassword,
		resetPassword:  resetPassword,
		baseURL:        baseURL,
		validate:       validator.New(),
		log:            log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username" validate:"required,min=3,max=32"`
		Email    string `json:"email" validate:"required,email,max=254"`
		Name     string `json:"name" validate:"max=128"`
		Password string `json:"password" validate:"required,min=8,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	username := SanitizeUsername(body.Username)
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if username == "" || email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid username, email or password")
		return
	}
	err := h.register.Execute(r.Context(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Name:     strings.TrimSpace(body.Name),
		Password: password,
		BaseURL:  h.baseURL,
	})
	if err != nil {
		AuditLog(h.log, r, "auth.register", "", false, err.Error())
		middleware.RecordAuthAttempt("register", false)
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "auth.register", "", true, "")
	middleware.RecordAuthAttempt("register", true)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "verification email sent",
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token" validate:"required,max=256"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.verifyEmail.Execute(r.Context(), auth.VerifyEmailInput{Token: body.Token})
	if err != nil {
		AuditLog(h.log, r, "auth.verify_email", "", false, err.Error())
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "auth.verify_email", result.User.ID.String(), true, "")
	writeJSON(w, http.StatusCreated, userResponse(result.User))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username" validate:"required,max=32"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{
		Username: SanitizeUsername(body.Username),
		Password: SanitizePassword(body.Password),
	})
	if err != nil {
		AuditLog(h.log, r, "auth.login", "", false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		if errors.Is(err, domerrors.ErrInvalidCredentials) {
			writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, err.Error())
			return
		}
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "auth.login", result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("login", true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  result.Tokens.AccessToken,
		"refresh_token": result.Tokens.RefreshToken,
		"user":          userResponse(result.User),
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token" validate:"required,max=1024"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.refresh.Execute(r.Context(), auth.RefreshInput{RefreshToken: body.RefreshToken})
	if err != nil {
		middleware.RecordAuthAttempt("refresh", false)
		writeDomainErr(w, err)
		return
	}
	middleware.RecordAuthAttempt("refresh", true)
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": result.AccessToken,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token" validate:"max=1024"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	access := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := h.logout.Execute(r.Context(), auth.LogoutInput{
		AccessToken:  access,
		RefreshToken: body.RefreshToken,
	}); err != nil {
		writeDomainErr(w, err)
		return
	}
	user := middleware.UserFromContext(r.Context())
	if user != nil {
		AuditLog(h.log, r, "auth.logout", user.ID.String(), true, "")
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	err := h.forgotPassword.Execute(r.Context(), auth.ForgotPasswordInput{
		Email:   SanitizeEmail(body.Email),
		BaseURL: h.baseURL,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	// Deliberately identical for known and unknown addresses.
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "if the address is registered, a reset email has been sent",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token    string `json:"token" validate:"required,max=256"`
		Password string `json:"password" validate:"required,min=8,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	err := h.resetPassword.Execute(r.Context(), auth.ResetPasswordInput{
		Token:    body.Token,
		Password: SanitizePassword(body.Password),
	})
	if err != nil {
		AuditLog(h.log, r, "auth.reset_password", "", false, err.Error())
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "auth.reset_password", "", true, "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
