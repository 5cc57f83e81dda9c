package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/homecart/homecart/internal/auth"
	"github.com/homecart/homecart/internal/store"
)

// HandleWebSocket returns an HTTP handler that upgrades connections to
// WebSocket and runs them as Hub clients. The client's subscriptions are the
// caller's current group memberships, resolved at connect time.
func HandleWebSocket(hub *Hub, groupStore *store.GroupStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == 0 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		groups, err := groupStore.ListGroupsForUser(userID)
		if err != nil {
			logger.Error("resolve memberships", "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		groupIDs := make([]int64, 0, len(groups))
		for _, g := range groups {
			groupIDs = append(groupIDs, g.ID)
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Allow connections from any origin (household LAN)
		})
		if err != nil {
			logger.Error("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, userID, groupIDs)
		client.Run(r.Context())
	}
}
