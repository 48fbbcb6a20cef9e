package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/imenik/internal/auth"
	"github.com/erazemk/imenik/internal/metrics"
	"github.com/erazemk/imenik/internal/model"
	"github.com/erazemk/imenik/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
	Metrics   *metrics.Metrics
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token,omitempty"`
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if err := model.ValidateEmail(email); err != nil {
		h.Metrics.ObserveAuth("signup", err)
		authError(w, http.StatusBadRequest, auth.Classify(err))
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		h.Metrics.ObserveAuth("signup", err)
		authError(w, http.StatusBadRequest, auth.Classify(err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, email, string(hash))
	if errors.Is(err, store.ErrEmailTaken) {
		h.Metrics.ObserveAuth("signup", err)
		authError(w, http.StatusConflict, &auth.Error{Code: auth.CodeEmailInUse})
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	h.Metrics.ObserveAuth("signup", nil)
	slog.Info("user signed up", "user", user.ID)
	jsonResponse(w, http.StatusCreated, sessionResponse{UserID: user.ID, Email: user.Email, Token: token})
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if err := model.ValidateEmail(email); err != nil {
		h.Metrics.ObserveAuth("signin", err)
		authError(w, http.StatusBadRequest, auth.Classify(err))
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, email)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Unknown email and wrong password are reported the same way.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.Metrics.ObserveAuth("signin", errors.New(auth.CodeInvalidCredential))
		slog.Warn("sign-in failed", "remote", r.RemoteAddr)
		authError(w, http.StatusUnauthorized, &auth.Error{Code: auth.CodeInvalidCredential})
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	h.Metrics.ObserveAuth("signin", nil)
	slog.Info("user signed in", "user", user.ID)
	jsonResponse(w, http.StatusOK, sessionResponse{UserID: user.ID, Email: user.Email, Token: token})
}

// SignOut handles POST /api/auth/signout by revoking the presented token.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	expires := time.Now().Add(auth.TokenExpiry)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}

	err := store.RevokeToken(r.Context(), h.DB, claims.ID, expires)
	h.Metrics.ObserveAuth("signout", err)
	if err != nil {
		slog.Error("failed to revoke token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to sign out")
		return
	}

	slog.Info("user signed out", "user", claims.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		slog.Error("failed to get user", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}

	jsonResponse(w, http.StatusOK, sessionResponse{UserID: user.ID, Email: user.Email})
}
