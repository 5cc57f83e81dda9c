package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/homecart/homecart/internal/access"
	"github.com/homecart/homecart/internal/auth"
	"github.com/homecart/homecart/internal/grocery"
	"github.com/homecart/homecart/internal/model"
	"github.com/homecart/homecart/internal/store"
	ws "github.com/homecart/homecart/internal/websocket"
)

type GroceryItemHandler struct {
	itemStore *store.GroceryItemStore
	listStore *store.GroceryListStore
	checker   *access.Checker
	hub       *ws.Hub
	logger    *slog.Logger
}

func NewGroceryItemHandler(is *store.GroceryItemStore, ls *store.GroceryListStore, checker *access.Checker, hub *ws.Hub, logger *slog.Logger) *GroceryItemHandler {
	return &GroceryItemHandler{itemStore: is, listStore: ls, checker: checker, hub: hub, logger: logger}
}

type itemView struct {
	model.GroceryItem
	CategoryDisplay string `json:"category_display"`
}

func newItemView(item *model.GroceryItem) itemView {
	return itemView{GroceryItem: *item, CategoryDisplay: item.CategoryLabel()}
}

func itemViews(items []model.GroceryItem) []itemView {
	views := make([]itemView, 0, len(items))
	for i := range items {
		views = append(views, newItemView(&items[i]))
	}
	return views
}

// validQuantity reports whether q is positive and representable with two
// fractional digits.
func validQuantity(q float64) bool {
	if q <= 0 {
		return false
	}
	scaled := q * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

// List returns the caller's accessible items, optionally filtered by list id,
// category, purchase state, and case-insensitive name substring. The filters
// compose; each is independent.
func (h *GroceryItemHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var filter store.ItemFilter
	q := r.URL.Query()

	if raw := q.Get("list_id"); raw != "" {
		listID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			invalidRequest(w, "list_id must be an integer.")
			return
		}
		filter.ListID = &listID
	}
	if raw := q.Get("category"); raw != "" {
		if !model.ValidCategory(raw) {
			invalidRequest(w, fmt.Sprintf("Unknown category %q.", raw))
			return
		}
		filter.Category = &raw
	}
	if raw := q.Get("is_purchased"); raw != "" {
		purchased := strings.EqualFold(raw, "true")
		filter.Purchased = &purchased
	}
	filter.NameContains = q.Get("search")

	items, err := h.itemStore.List(userID, filter)
	if err != nil {
		h.logger.Error("list items", "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, itemViews(items))
}

func (h *GroceryItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid item id.")
		return
	}

	item, err := h.itemStore.GetByIDForUser(id, userID)
	if err != nil {
		h.logger.Error("get item", "error", err)
		internalError(w)
		return
	}
	if item == nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, newItemView(item))
}

type itemCreateRequest struct {
	GroceryListID int64    `json:"grocery_list_id"`
	Name          string   `json:"name"`
	Quantity      *float64 `json:"quantity"`
	Category      string   `json:"category"`
	Notes         string   `json:"notes"`
}

func (h *GroceryItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req itemCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(w, "Request body must be valid JSON.")
		return
	}

	if req.GroceryListID == 0 {
		invalidRequest(w, "grocery_list_id is required.")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		invalidRequest(w, "Name is required.")
		return
	}

	quantity := 1.0
	if req.Quantity != nil {
		if !validQuantity(*req.Quantity) {
			invalidRequest(w, "Quantity must be positive with at most 2 decimal places.")
			return
		}
		quantity = *req.Quantity
	}

	// Auto-categorize from the item name when no category is given.
	category := req.Category
	if category == "" {
		category = grocery.Categorize(req.Name)
	} else if !model.ValidCategory(category) {
		invalidRequest(w, fmt.Sprintf("Unknown category %q.", category))
		return
	}

	// The target list must resolve within the caller's membership scope.
	list, err := h.listStore.GetByIDForUser(req.GroceryListID, userID)
	if err != nil {
		h.logger.Error("get list", "error", err)
		internalError(w)
		return
	}
	if list == nil {
		notFound(w)
		return
	}

	item, err := h.itemStore.Create(list.ID, req.Name, quantity, category, req.Notes, userID)
	if err != nil {
		h.logger.Error("create item", "error", err)
		internalError(w)
		return
	}

	h.hub.Broadcast(list.GroupID, ws.NewMessage("item", "created", item.ID, list.GroupID))
	writeJSON(w, http.StatusCreated, newItemView(item))
}

type itemUpdateRequest struct {
	Name        *string  `json:"name"`
	Quantity    *float64 `json:"quantity"`
	Category    *string  `json:"category"`
	Notes       *string  `json:"notes"`
	IsPurchased *bool    `json:"is_purchased"`
}

func (h *GroceryItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid item id.")
		return
	}

	if !objectCheck(w, h.checker, h.logger, userID, access.Item(id)) {
		return
	}

	var req itemUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(w, "Request body must be valid JSON.")
		return
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			invalidRequest(w, "Name cannot be empty.")
			return
		}
		req.Name = &trimmed
	}
	if req.Quantity != nil && !validQuantity(*req.Quantity) {
		invalidRequest(w, "Quantity must be positive with at most 2 decimal places.")
		return
	}
	if req.Category != nil && !model.ValidCategory(*req.Category) {
		invalidRequest(w, fmt.Sprintf("Unknown category %q.", *req.Category))
		return
	}

	item, err := h.itemStore.Update(id, userID, store.ItemChanges{
		Name:        req.Name,
		Quantity:    req.Quantity,
		Category:    req.Category,
		Notes:       req.Notes,
		IsPurchased: req.IsPurchased,
	})
	if err != nil {
		h.logger.Error("update item", "error", err)
		internalError(w)
		return
	}
	if item == nil {
		notFound(w)
		return
	}

	h.broadcastItem("updated", item)
	writeJSON(w, http.StatusOK, newItemView(item))
}

func (h *GroceryItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid item id.")
		return
	}

	if !objectCheck(w, h.checker, h.logger, userID, access.Item(id)) {
		return
	}

	item, err := h.itemStore.GetByID(id)
	if err != nil {
		h.logger.Error("get item", "error", err)
		internalError(w)
		return
	}
	if item == nil {
		notFound(w)
		return
	}

	if err := h.itemStore.Delete(id); err != nil {
		h.logger.Error("delete item", "error", err)
		internalError(w)
		return
	}

	h.broadcastItem("deleted", item)
	w.WriteHeader(http.StatusNoContent)
}

// TogglePurchased flips the purchase state, stamping purchased_at and
// purchased_by with now and the acting user on purchase, clearing both on
// un-purchase.
func (h *GroceryItemHandler) TogglePurchased(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid item id.")
		return
	}

	if !objectCheck(w, h.checker, h.logger, userID, access.Item(id)) {
		return
	}

	item, err := h.itemStore.TogglePurchased(id, userID)
	if err != nil {
		h.logger.Error("toggle purchased", "error", err)
		internalError(w)
		return
	}
	if item == nil {
		notFound(w)
		return
	}

	h.broadcastItem("updated", item)
	writeJSON(w, http.StatusOK, newItemView(item))
}

type markPurchasedRequest struct {
	IsPurchased *bool `json:"is_purchased"`
}

// MarkPurchased sets the purchase state to an explicit value with the same
// stamping rule as toggle. Re-sending the current value does not re-stamp.
func (h *GroceryItemHandler) MarkPurchased(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		invalidRequest(w, "Invalid item id.")
		return
	}

	if !objectCheck(w, h.checker, h.logger, userID, access.Item(id)) {
		return
	}

	var req markPurchasedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(w, "Request body must be valid JSON.")
		return
	}
	if req.IsPurchased == nil {
		invalidRequest(w, "is_purchased is required.")
		return
	}

	item, err := h.itemStore.SetPurchased(id, userID, *req.IsPurchased)
	if err != nil {
		h.logger.Error("mark purchased", "error", err)
		internalError(w)
		return
	}
	if item == nil {
		notFound(w)
		return
	}

	h.broadcastItem("updated", item)
	writeJSON(w, http.StatusOK, newItemView(item))
}

type bulkItemIDsRequest struct {
	ItemIDs []int64 `json:"item_ids"`
}

// BulkMarkPurchased marks the given items purchased in one atomic statement.
// Ids outside the caller's accessible scope are silently excluded from the
// reported count.
func (h *GroceryItemHandler) BulkMarkPurchased(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	ids, ok := h.decodeBulkIDs(w, r)
	if !ok {
		return
	}

	count, err := h.itemStore.BulkMarkPurchased(ids, userID)
	if err != nil {
		h.logger.Error("bulk mark purchased", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"detail":        fmt.Sprintf("Marked %d items as purchased.", count),
		"updated_count": count,
	})
}

// BulkDelete deletes the given items in one atomic statement with the same
// scope restriction as BulkMarkPurchased.
func (h *GroceryItemHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	ids, ok := h.decodeBulkIDs(w, r)
	if !ok {
		return
	}

	count, err := h.itemStore.BulkDelete(ids, userID)
	if err != nil {
		h.logger.Error("bulk delete", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"detail":        fmt.Sprintf("Deleted %d items.", count),
		"deleted_count": count,
	})
}

func (h *GroceryItemHandler) decodeBulkIDs(w http.ResponseWriter, r *http.Request) ([]int64, bool) {
	var req bulkItemIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidRequest(w, "Request body must be valid JSON.")
		return nil, false
	}
	if len(req.ItemIDs) == 0 {
		invalidRequest(w, "item_ids must be a non-empty list.")
		return nil, false
	}
	return req.ItemIDs, true
}

func (h *GroceryItemHandler) broadcastItem(action string, item *model.GroceryItem) {
	groupID, err := h.checker.OwningGroup(access.List(item.ListID))
	if err != nil {
		return
	}
	h.hub.Broadcast(groupID, ws.NewMessage("item", action, item.ID, groupID))
}
