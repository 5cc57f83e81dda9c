package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/homecart/homecart/internal/auth"
	"github.com/homecart/homecart/internal/middleware"
	"github.com/homecart/homecart/internal/model"
	"github.com/homecart/homecart/internal/store"
)

type AuthHandler struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	logger       *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{userStore: us, sessionStore: ss, logger: logger}
}

type registerRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(w, "Request body must be valid JSON.")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if _, err := mail.ParseAddress(req.Email); err != nil {
		invalidRequest(w, "A valid email is required.")
		return
	}
	if req.Username == "" {
		invalidRequest(w, "Username is required.")
		return
	}
	if len(req.Password) < 8 {
		invalidRequest(w, "Password must be at least 8 characters.")
		return
	}

	if existing, err := h.userStore.GetByEmail(req.Email); err != nil {
		h.logger.Error("register email lookup", "error", err)
		internalError(w)
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "conflict", "A user with this email already exists.")
		return
	}
	if existing, err := h.userStore.GetByUsername(req.Username); err != nil {
		h.logger.Error("register username lookup", "error", err)
		internalError(w)
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "conflict", "A user with this username already exists.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		internalError(w)
		return
	}

	user, err := h.userStore.Create(req.Email, req.Username, string(hash), req.FirstName, req.LastName)
	if err != nil {
		h.logger.Error("create user", "error", err)
		internalError(w)
		return
	}

	sess, err := h.sessionStore.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		internalError(w)
		return
	}

	h.setSessionCookie(w, sess.Token)
	writeJSON(w, http.StatusCreated, sessionResponse{Token: sess.Token, User: user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(w, "Request body must be valid JSON.")
		return
	}

	user, err := h.userStore.GetByEmail(strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		internalError(w)
		return
	}
	// Same failure for unknown email and bad password to avoid enumeration.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Invalid email or password.")
		return
	}

	sess, err := h.sessionStore.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		internalError(w)
		return
	}

	h.setSessionCookie(w, sess.Token)
	writeJSON(w, http.StatusOK, sessionResponse{Token: sess.Token, User: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required.")
		return
	}

	if err := h.sessionStore.Delete(ac.SessionID); err != nil {
		h.logger.Error("delete session", "error", err)
		internalError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
