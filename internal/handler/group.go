package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/homecart/homecart/internal/access"
	"github.com/homecart/homecart/internal/auth"
	"github.com/homecart/homecart/internal/model"
	"github.com/homecart/homecart/internal/store"
	ws "github.com/homecart/homecart/internal/websocket"
)

type GroupHandler struct {
	groupStore *store.GroupStore
	userStore  *store.UserStore
	checker    *access.Checker
	hub        *ws.Hub
	logger     *slog.Logger
}

func NewGroupHandler(gs *store.GroupStore, us *store.UserStore, checker *access.Checker, hub *ws.Hub, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{groupStore: gs, userStore: us, checker: checker, hub: hub, logger: logger}
}

type groupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type groupDetail struct {
	model.Group
	Memberships []model.GroupMembership `json:"memberships"`
}

// List returns the caller's groups. A user with no memberships gets an empty
// result, never an error.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	groups, err := h.groupStore.ListGroupsForUser(userID)
	if err != nil {
		h.logger.Error("list groups", "error", err)
		internalError(w)
		return
	}
	if groups == nil {
		groups = []model.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(w, "Request body must be valid JSON.")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		invalidRequest(w, "Name is required.")
		return
	}

	group, err := h.groupStore.Create(req.Name, req.Description, userID)
	if err != nil {
		h.logger.Error("create group", "error", err)
		internalError(w)
		return
	}

	h.hub.Broadcast(group.ID, ws.NewMessage("group", "created", group.ID, group.ID))
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid group id.")
		return
	}

	group, err := h.groupStore.GetByIDForUser(id, userID)
	if err != nil {
		h.logger.Error("get group", "error", err)
		internalError(w)
		return
	}
	if group == nil {
		notFound(w)
		return
	}

	members, err := h.groupStore.ListMembers(group.ID)
	if err != nil {
		h.logger.Error("list group members", "error", err)
		internalError(w)
		return
	}
	if members == nil {
		members = []model.GroupMembership{}
	}

	writeJSON(w, http.StatusOK, groupDetail{Group: *group, Memberships: members})
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid group id.")
		return
	}

	if !h.checkObject(w, userID, access.Group(id)) {
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(w, "Request body must be valid JSON.")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		invalidRequest(w, "Name is required.")
		return
	}

	group, err := h.groupStore.Update(id, req.Name, req.Description)
	if err != nil {
		h.logger.Error("update group", "error", err)
		internalError(w)
		return
	}

	h.hub.Broadcast(group.ID, ws.NewMessage("group", "updated", group.ID, group.ID))
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid group id.")
		return
	}

	if !h.checkObject(w, userID, access.Group(id)) {
		return
	}

	if err := h.groupStore.Delete(id); err != nil {
		h.logger.Error("delete group", "error", err)
		internalError(w)
		return
	}

	h.hub.Broadcast(id, ws.NewMessage("group", "deleted", id, id))
	w.WriteHeader(http.StatusNoContent)
}

type addMemberRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	groupID, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid group id.")
		return
	}

	if !h.checkObject(w, userID, access.Group(groupID)) {
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(w, "Request body must be valid JSON.")
		return
	}
	if req.UserID == 0 {
		invalidRequest(w, "user_id is required.")
		return
	}

	target, err := h.userStore.GetByID(req.UserID)
	if err != nil {
		h.logger.Error("lookup member user", "error", err)
		internalError(w)
		return
	}
	if target == nil {
		notFound(w)
		return
	}

	membership, err := h.groupStore.AddMember(groupID, target.ID)
	if errors.Is(err, store.ErrAlreadyMember) {
		writeError(w, http.StatusConflict, "already_member", "User is already a member of this group.")
		return
	}
	if err != nil {
		h.logger.Error("add member", "error", err)
		internalError(w)
		return
	}

	h.hub.Broadcast(groupID, ws.NewMessage("membership", "created", membership.ID, groupID))
	writeJSON(w, http.StatusCreated, membership)
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	groupID, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid group id.")
		return
	}
	targetID, err := parseIDParam(r, "user_id")
	if err != nil {
		invalidRequest(w, "Invalid user id.")
		return
	}

	if !h.checkObject(w, userID, access.Group(groupID)) {
		return
	}

	err = h.groupStore.RemoveMember(groupID, targetID)
	if errors.Is(err, store.ErrNotAMember) {
		writeError(w, http.StatusConflict, "not_a_member", "User is not a member of this group.")
		return
	}
	if err != nil {
		h.logger.Error("remove member", "error", err)
		internalError(w)
		return
	}

	h.hub.Broadcast(groupID, ws.NewMessage("membership", "deleted", targetID, groupID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	groupID, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid group id.")
		return
	}

	group, err := h.groupStore.GetByID(groupID)
	if err != nil {
		h.logger.Error("get group", "error", err)
		internalError(w)
		return
	}
	if group == nil {
		notFound(w)
		return
	}

	err = h.groupStore.RemoveMember(groupID, userID)
	if errors.Is(err, store.ErrNotAMember) {
		writeError(w, http.StatusConflict, "not_a_member", "You are not a member of this group.")
		return
	}
	if err != nil {
		h.logger.Error("leave group", "error", err)
		internalError(w)
		return
	}

	h.hub.Broadcast(groupID, ws.NewMessage("membership", "deleted", userID, groupID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) checkObject(w http.ResponseWriter, userID int64, res access.Resource) bool {
	return objectCheck(w, h.checker, h.logger, userID, res)
}
