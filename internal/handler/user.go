package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/homecart/homecart/internal/auth"
	"github.com/homecart/homecart/internal/store"
)

type UserHandler struct {
	userStore *store.UserStore
	logger    *slog.Logger
}

func NewUserHandler(us *store.UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{userStore: us, logger: logger}
}

// Me returns the acting user's own profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	user, err := h.userStore.GetByID(userID)
	if err != nil {
		h.logger.Error("get user", "error", err)
		internalError(w)
		return
	}
	if user == nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type profileUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UpdateMe edits the acting user's display name fields. Email and username
// are identity and stay fixed.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(w, "Request body must be valid JSON.")
		return
	}

	user, err := h.userStore.Update(userID, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName))
	if err != nil {
		h.logger.Error("update user", "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
