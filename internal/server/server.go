// Package server wires the HTTP API: routing, request decoding and the
// websocket endpoint. All business rules live in the service layer; handlers
// only translate between HTTP and service calls.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hisab-io/hisab/internal/attachments"
	"github.com/hisab-io/hisab/internal/auth"
	"github.com/hisab-io/hisab/internal/config"
	"github.com/hisab-io/hisab/internal/middleware"
	"github.com/hisab-io/hisab/internal/realtime"
	"github.com/hisab-io/hisab/internal/service"
)

// Server holds the handler dependencies.
type Server struct {
	cfg         *config.Config
	auth        *service.AuthService
	groups      *service.GroupService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	dashboard   *service.DashboardService
	attachments *attachments.Store
	hub         *realtime.Hub
	jwtManager  *auth.JWTManager
}

// Deps bundles the constructor arguments for New.
type Deps struct {
	Config      *config.Config
	Auth        *service.AuthService
	Groups      *service.GroupService
	Expenses    *service.ExpenseService
	Settlements *service.SettlementService
	Dashboard   *service.DashboardService
	Attachments *attachments.Store
	Hub         *realtime.Hub
	JWTManager  *auth.JWTManager
}

// New creates a Server with the given dependencies.
func New(deps Deps) *Server {
	return &Server{
		cfg:         deps.Config,
		auth:        deps.Auth,
		groups:      deps.Groups,
		expenses:    deps.Expenses,
		settlements: deps.Settlements,
		dashboard:   deps.Dashboard,
		attachments: deps.Attachments,
		hub:         deps.Hub,
		jwtManager:  deps.JWTManager,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Logging)

	r.Get("/", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.attachments.Dir()))))

	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.jwtManager))

		r.Get("/api/users/me", s.handleCurrentUser)
		r.Put("/api/users/me", s.handleUpdateProfile)

		r.Post("/api/uploads", s.handleUpload)

		r.Route("/api/groups", func(r chi.Router) {
			r.Post("/", s.handleCreateGroup)
			r.Get("/", s.handleListGroups)
			r.Get("/{groupID}", s.handleGetGroup)
			r.Delete("/{groupID}", s.handleDeleteGroup)
			r.Post("/{groupID}/members", s.handleAddMember)
			r.Get("/{groupID}/balances", s.handleGroupBalances)
			r.Get("/{groupID}/expenses", s.handleListGroupExpenses)
			r.Get("/{groupID}/settlements", s.handleListGroupSettlements)
		})

		r.Route("/api/expenses", func(r chi.Router) {
			r.Post("/", s.handleCreateExpense)
			r.Get("/personal", s.handleListPersonalExpenses)
			r.Get("/{expenseID}", s.handleGetExpense)
			r.Put("/{expenseID}", s.handleUpdateExpense)
			r.Delete("/{expenseID}", s.handleDeleteExpense)
		})

		r.Route("/api/settlements", func(r chi.Router) {
			r.Post("/", s.handleCreateSettlement)
			r.Get("/{settlementID}", s.handleGetSettlement)
			r.Delete("/{settlementID}", s.handleDeleteSettlement)
		})

		r.Get("/api/users/dashboard", s.handleDashboard)

		r.Get("/ws", s.handleWS)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"message":   "group ledger API is running",
		"timestamp": time.Now().Unix(),
	})
}
