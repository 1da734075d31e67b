package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hisab-io/hisab/internal/attachments"
	"github.com/hisab-io/hisab/internal/auth"
	"github.com/hisab-io/hisab/internal/config"
	"github.com/hisab-io/hisab/internal/realtime"
	"github.com/hisab-io/hisab/internal/server"
	"github.com/hisab-io/hisab/internal/service"
	"github.com/hisab-io/hisab/internal/storage/sqlite"
	"github.com/hisab-io/hisab/pkg/logging"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	attachmentStore, err := attachments.NewStore(cfg.UploadDir)
	if err != nil {
		slog.Error("Failed to initialize attachment storage", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub()
	stopHeartbeat := make(chan struct{})
	defer close(stopHeartbeat)
	go hub.Heartbeat(30*time.Second, stopHeartbeat)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	srv := server.New(server.Deps{
		Config:      cfg,
		Auth:        service.NewAuthService(authenticator, jwtManager, store),
		Groups:      service.NewGroupService(store),
		Expenses:    service.NewExpenseService(store, hub),
		Settlements: service.NewSettlementService(store, hub),
		Dashboard:   service.NewDashboardService(store),
		Attachments: attachmentStore,
		Hub:         hub,
		JWTManager:  jwtManager,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
