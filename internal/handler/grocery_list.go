package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/homecart/homecart/internal/access"
	"github.com/homecart/homecart/internal/auth"
	"github.com/homecart/homecart/internal/model"
	"github.com/homecart/homecart/internal/store"
	ws "github.com/homecart/homecart/internal/websocket"
)

type GroceryListHandler struct {
	listStore  *store.GroceryListStore
	groupStore *store.GroupStore
	checker    *access.Checker
	hub        *ws.Hub
	logger     *slog.Logger
}

func NewGroceryListHandler(ls *store.GroceryListStore, gs *store.GroupStore, checker *access.Checker, hub *ws.Hub, logger *slog.Logger) *GroceryListHandler {
	return &GroceryListHandler{listStore: ls, groupStore: gs, checker: checker, hub: hub, logger: logger}
}

type listView struct {
	model.GroceryList
	ActiveItemsCount    int `json:"active_items_count"`
	PurchasedItemsCount int `json:"purchased_items_count"`
}

type listDetail struct {
	listView
	ActiveItems    []itemView `json:"active_items"`
	PurchasedItems []itemView `json:"purchased_items"`
}

func (h *GroceryListHandler) renderView(l *model.GroceryList) (*listView, error) {
	active, err := h.listStore.CountActive(l.ID)
	if err != nil {
		return nil, err
	}
	purchased, err := h.listStore.CountPurchased(l.ID)
	if err != nil {
		return nil, err
	}
	return &listView{GroceryList: *l, ActiveItemsCount: active, PurchasedItemsCount: purchased}, nil
}

func (h *GroceryListHandler) renderDetail(l *model.GroceryList) (*listDetail, error) {
	view, err := h.renderView(l)
	if err != nil {
		return nil, err
	}
	active, err := h.listStore.ListActiveItems(l.ID)
	if err != nil {
		return nil, err
	}
	purchased, err := h.listStore.ListPurchasedItems(l.ID)
	if err != nil {
		return nil, err
	}
	return &listDetail{
		listView:       *view,
		ActiveItems:    itemViews(active),
		PurchasedItems: itemViews(purchased),
	}, nil
}

// List returns the lists of the caller's groups with fresh item counts.
func (h *GroceryListHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	lists, err := h.listStore.ListForUser(userID)
	if err != nil {
		h.logger.Error("list grocery lists", "error", err)
		internalError(w)
		return
	}

	views := make([]listView, 0, len(lists))
	for i := range lists {
		v, err := h.renderView(&lists[i])
		if err != nil {
			h.logger.Error("render list", "error", err)
			internalError(w)
			return
		}
		views = append(views, *v)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *GroceryListHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid list id.")
		return
	}

	list, err := h.listStore.GetByIDForUser(id, userID)
	if err != nil {
		h.logger.Error("get list", "error", err)
		internalError(w)
		return
	}
	if list == nil {
		notFound(w)
		return
	}

	detail, err := h.renderDetail(list)
	if err != nil {
		h.logger.Error("render list detail", "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// ByGroup returns the group's list, creating it on first access. The group
// is resolved through the caller's membership scope.
func (h *GroceryListHandler) ByGroup(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	groupID, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid group id.")
		return
	}

	group, err := h.groupStore.GetByIDForUser(groupID, userID)
	if err != nil {
		h.logger.Error("get group", "error", err)
		internalError(w)
		return
	}
	if group == nil {
		notFound(w)
		return
	}

	list, err := h.listStore.GetOrCreateForGroup(group)
	if err != nil {
		h.logger.Error("get or create list", "error", err)
		internalError(w)
		return
	}

	detail, err := h.renderDetail(list)
	if err != nil {
		h.logger.Error("render list detail", "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type listRenameRequest struct {
	Name string `json:"name"`
}

func (h *GroceryListHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid list id.")
		return
	}

	if !objectCheck(w, h.checker, h.logger, userID, access.List(id)) {
		return
	}

	var req listRenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(w, "Request body must be valid JSON.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		invalidRequest(w, "Name is required.")
		return
	}

	list, err := h.listStore.Rename(id, req.Name)
	if err != nil {
		h.logger.Error("rename list", "error", err)
		internalError(w)
		return
	}

	view, err := h.renderView(list)
	if err != nil {
		h.logger.Error("render list", "error", err)
		internalError(w)
		return
	}

	h.hub.Broadcast(list.GroupID, ws.NewMessage("list", "updated", list.ID, list.GroupID))
	writeJSON(w, http.StatusOK, view)
}

func (h *GroceryListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid list id.")
		return
	}

	if !objectCheck(w, h.checker, h.logger, userID, access.List(id)) {
		return
	}

	list, err := h.listStore.GetByID(id)
	if err != nil {
		h.logger.Error("get list", "error", err)
		internalError(w)
		return
	}
	if list == nil {
		notFound(w)
		return
	}

	if err := h.listStore.Delete(id); err != nil {
		h.logger.Error("delete list", "error", err)
		internalError(w)
		return
	}

	h.hub.Broadcast(list.GroupID, ws.NewMessage("list", "deleted", id, list.GroupID))
	w.WriteHeader(http.StatusNoContent)
}

// ActiveItems returns the list's unpurchased items, newest created first.
func (h *GroceryListHandler) ActiveItems(w http.ResponseWriter, r *http.Request) {
	h.itemsView(w, r, h.listStore.ListActiveItems)
}

// PurchasedItems returns the list's purchased items, most recently purchased first.
func (h *GroceryListHandler) PurchasedItems(w http.ResponseWriter, r *http.Request) {
	h.itemsView(w, r, h.listStore.ListPurchasedItems)
}

func (h *GroceryListHandler) itemsView(w http.ResponseWriter, r *http.Request, fetch func(int64) ([]model.GroceryItem, error)) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid list id.")
		return
	}

	list, err := h.listStore.GetByIDForUser(id, userID)
	if err != nil {
		h.logger.Error("get list", "error", err)
		internalError(w)
		return
	}
	if list == nil {
		notFound(w)
		return
	}

	items, err := fetch(list.ID)
	if err != nil {
		h.logger.Error("list items", "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, itemViews(items))
}

// ClearPurchased deletes all purchased items on the list in one bulk
// operation. Zero purchased items is success with count 0.
func (h *GroceryListHandler) ClearPurchased(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid list id.")
		return
	}

	if !objectCheck(w, h.checker, h.logger, userID, access.List(id)) {
		return
	}

	count, err := h.listStore.ClearPurchased(id)
	if err != nil {
		h.logger.Error("clear purchased", "error", err)
		internalError(w)
		return
	}

	if groupID, err := h.checker.OwningGroup(access.List(id)); err == nil {
		h.hub.Broadcast(groupID, ws.NewMessage("list", "cleared", id, groupID))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"detail":        fmt.Sprintf("Deleted %d purchased items.", count),
		"deleted_count": count,
	})
}
