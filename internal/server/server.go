package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/homecart/homecart/internal/access"
	"github.com/homecart/homecart/internal/handler"
	"github.com/homecart/homecart/internal/middleware"
	"github.com/homecart/homecart/internal/store"
	ws "github.com/homecart/homecart/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	userH        *handler.UserHandler
	groupH       *handler.GroupHandler
	listH        *handler.GroceryListHandler
	itemH        *handler.GroceryItemHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	groupStore   *store.GroupStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	groupStore := store.NewGroupStore(db)
	listStore := store.NewGroceryListStore(db)
	itemStore := store.NewGroceryItemStore(db)

	checker := access.NewChecker(db)

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		userH:        handler.NewUserHandler(userStore, logger.With("component", "user")),
		groupH:       handler.NewGroupHandler(groupStore, userStore, checker, hub, logger.With("component", "group")),
		listH:        handler.NewGroceryListHandler(listStore, groupStore, checker, hub, logger.With("component", "grocery_list")),
		itemH:        handler.NewGroceryItemHandler(itemStore, listStore, checker, hub, logger.With("component", "grocery_item")),
		sessionStore: sessionStore,
		userStore:    userStore,
		groupStore:   groupStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth.
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	mux.HandleFunc("GET /api/users/me", s.userH.Me)
	mux.HandleFunc("PUT /api/users/me", s.userH.UpdateMe)

	// Group API routes
	mux.HandleFunc("GET /api/groups", s.groupH.List)
	mux.HandleFunc("POST /api/groups", s.groupH.Create)
	mux.HandleFunc("GET /api/groups/{id}", s.groupH.Get)
	mux.HandleFunc("PUT /api/groups/{id}", s.groupH.Update)
	mux.HandleFunc("DELETE /api/groups/{id}", s.groupH.Delete)
	mux.HandleFunc("POST /api/groups/{id}/members", s.groupH.AddMember)
	mux.HandleFunc("DELETE /api/groups/{id}/members/{user_id}", s.groupH.RemoveMember)
	mux.HandleFunc("POST /api/groups/{id}/leave", s.groupH.Leave)
	mux.HandleFunc("GET /api/groups/{id}/grocery-list", s.listH.ByGroup)

	// Grocery list API routes
	mux.HandleFunc("GET /api/grocery-lists", s.listH.List)
	mux.HandleFunc("GET /api/grocery-lists/{id}", s.listH.Get)
	mux.HandleFunc("PUT /api/grocery-lists/{id}", s.listH.Update)
	mux.HandleFunc("DELETE /api/grocery-lists/{id}", s.listH.Delete)
	mux.HandleFunc("GET /api/grocery-lists/{id}/active-items", s.listH.ActiveItems)
	mux.HandleFunc("GET /api/grocery-lists/{id}/purchased-items", s.listH.PurchasedItems)
	mux.HandleFunc("POST /api/grocery-lists/{id}/clear-purchased", s.listH.ClearPurchased)

	// Grocery item API routes
	mux.HandleFunc("GET /api/grocery-items", s.itemH.List)
	mux.HandleFunc("POST /api/grocery-items", s.itemH.Create)
	mux.HandleFunc("GET /api/grocery-items/{id}", s.itemH.Get)
	mux.HandleFunc("PUT /api/grocery-items/{id}", s.itemH.Update)
	mux.HandleFunc("DELETE /api/grocery-items/{id}", s.itemH.Delete)
	mux.HandleFunc("POST /api/grocery-items/{id}/toggle-purchased", s.itemH.TogglePurchased)
	mux.HandleFunc("POST /api/grocery-items/{id}/mark-purchased", s.itemH.MarkPurchased)
	mux.HandleFunc("POST /api/grocery-items/bulk-mark-purchased", s.itemH.BulkMarkPurchased)
	mux.HandleFunc("POST /api/grocery-items/bulk-delete", s.itemH.BulkDelete)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.groupStore, s.logger.With("component", "websocket")))
}
