package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/homecart/homecart/internal/access"
)

// errorBody is the structured error response: a machine-checkable kind plus a
// human-readable detail. Storage-layer error text never reaches the caller.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, detail string) {
	writeJSON(w, status, errorBody{Error: kind, Detail: detail})
}

func invalidRequest(w http.ResponseWriter, detail string) {
	writeError(w, http.StatusBadRequest, "invalid_request", detail)
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not_found", "Not found.")
}

func forbidden(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden, "forbidden", "You do not have permission to perform this action.")
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error.")
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// objectCheck runs the object-level membership check and writes the error
// response on failure. Returns true when access is granted. Used after a
// broad (unscoped) fetch, so an existing-but-inaccessible resource surfaces
// as forbidden rather than not found.
func objectCheck(w http.ResponseWriter, c *access.Checker, logger *slog.Logger, userID int64, res access.Resource) bool {
	switch err := c.Check(userID, res); {
	case err == nil:
		return true
	case errors.Is(err, access.ErrNotFound):
		notFound(w)
	case errors.Is(err, access.ErrForbidden):
		forbidden(w)
	default:
		logger.Error("access check", "error", err)
		internalError(w)
	}
	return false
}
