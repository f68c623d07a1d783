package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"driftnote-server/internal/backend"
	"driftnote-server/internal/config"
	"driftnote-server/internal/handler"
	"driftnote-server/internal/localstore"
	"driftnote-server/internal/middleware"
	"driftnote-server/internal/repository"
	"driftnote-server/internal/service"
	"driftnote-server/internal/websocket"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	store, err := localstore.Open(cfg.Fallback.Path)
	if err != nil {
		logger.Fatal("Failed to open fallback store", zap.String("path", cfg.Fallback.Path), zap.Error(err))
	}
	defer store.Close()

	gate := backend.NewGate(cfg.Remote, logger)
	if gate.Configured() {
		logger.Info("Remote backend configured", zap.String("url", cfg.Remote.URL), zap.String("database", cfg.Remote.Database))
	} else {
		logger.Info("No remote backend configured, running on fallback store only")
	}

	remoteRepo := repository.NewRemoteItemRepository(gate)
	localRepo := repository.NewLocalItemRepository(store, logger)

	wsManager := websocket.NewManager(
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
		logger,
	)
	go wsManager.Run()

	itemService := service.NewItemService(remoteRepo, localRepo, wsManager, logger)
	authService, err := service.NewAuthService(cfg.Auth.Password, cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)
	if err != nil {
		logger.Fatal("Failed to initialize auth service", zap.Error(err))
	}

	itemHandler := handler.NewItemHandler(itemService)
	authHandler := handler.NewAuthHandler(authService)
	settingsHandler := handler.NewSettingsHandler(gate)
	wsHandler := handler.NewWebSocketHandler(
		wsManager,
		cfg.Auth.JWTSecret,
		cfg.WebSocket.ReadBufferSize,
		cfg.WebSocket.WriteBufferSize,
		logger,
	)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

	protected.HandleFunc("/folders", itemHandler.CreateFolder).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes", itemHandler.CreateNote).Methods("POST", "OPTIONS")
	protected.HandleFunc("/items", itemHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/items/search", itemHandler.Search).Methods("GET", "OPTIONS")
	protected.HandleFunc("/items/{id}", itemHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/items/{id}", itemHandler.Update).Methods("PATCH", "OPTIONS")
	protected.HandleFunc("/items/{id}", itemHandler.Delete).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/settings/remote", settingsHandler.GetRemote).Methods("GET", "OPTIONS")
	protected.HandleFunc("/settings/remote", settingsHandler.UpdateRemote).Methods("PUT", "OPTIONS")

	r.HandleFunc("/ws", wsHandler.HandleConnection)

	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/", rootHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Driftnote server", zap.String("addr", addr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Server.Env == "development" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level

	return zcfg.Build()
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"driftnote-server"}`))
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Driftnote API","version":"1.0.0","endpoints":{"/api/v1/auth/login":"POST","/api/v1/folders":"POST (protected)","/api/v1/notes":"POST (protected)","/api/v1/items":"GET (protected)"}}`))
}
