package server

import (
	"context"
	"net/http"
	"os"

	"caption-service/auth"
	cachepackage "caption-service/cache"
	"caption-service/config"
	"caption-service/database"
	"caption-service/handlers"
	"caption-service/service"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// checkAuth records bearer credentials for request logging. It never
// rejects: every route is registered with AuthType "none" and token routes
// are gated by handlers.AccountHandler.Authenticated.
func checkAuth(r *http.Request) (bool, httpserver.RequestAuth) {
	if _, err := auth.ParseBearer(r.Header.Get("Authorization")); err != nil {
		return true, httpserver.RequestAuth{Type: "none"}
	}
	return true, httpserver.RequestAuth{
		Type:   "bearer",
		Client: "caption-client",
	}
}

func StartServer() {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Caption Service...")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		os.Exit(1)
	}

	dbConn := database.InitializeDatabase(context.Background(), cfg.DatabaseDSN)
	defer dbConn.Close()

	var settingsCache service.Cache
	if backend := cachepackage.InitializeCache(cfg.Cache); backend != nil {
		defer backend.Close()
		settingsCache = cachepackage.NewSettingsCache(backend)
	}

	serviceLog, err := zap.NewProduction()
	if err != nil {
		logger.Error("Failed to build service logger", zap.Error(err))
		os.Exit(1)
	}
	defer serviceLog.Sync()

	accounts, err := service.NewAccountService(dbConn, settingsCache, serviceLog.Named("accounts"), service.Options{
		BcryptCost: cfg.BcryptCost,
		TokenTTL:   cfg.TokenTTL,
	})
	if err != nil {
		logger.Error("Failed to initialize account service", zap.Error(err))
		os.Exit(1)
	}

	accountHandler := handlers.NewAccountHandler(accounts)
	cors := handlers.NewCORS(cfg.CORS)

	server := httpserver.New(cfg.Port, checkAuth)

	for _, rt := range routes(accountHandler, cors) {
		server.Register(rt.Route, rt.Handler)
	}

	logger.Info("Caption Service started", zap.String("port", cfg.Port))
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints: POST /register /login /forgot_password /savesettings, GET /me /getsettings")

	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
