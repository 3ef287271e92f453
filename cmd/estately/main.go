package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"estately/internal/app"
	"estately/internal/config"
	"estately/internal/server"
	"estately/internal/util"
	"estately/pkg/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	accessTTL, err := config.ParseAccessTokenTTL(cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("failed to parse access token TTL: %v", err)
	}
	refreshTTL, err := config.ParseRefreshTokenTTL(cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("failed to parse refresh token TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel, cfg.LogFormat)

	tokens, err := token.NewManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, accessTTL, refreshTTL)
	if err != nil {
		log.Fatalf("failed to init token manager: %v", err)
	}

	appCore, err := app.New(app.Config{
		DatabaseURL:    cfg.DatabaseURL,
		RedisAddr:      cfg.RedisAddr,
		RedisPassword:  cfg.RedisPassword,
		MinioEndpoint:  cfg.MinioEndpoint,
		MinioAccessKey: cfg.MinioAccessKey,
		MinioSecretKey: cfg.MinioSecretKey,
		MinioBucket:    cfg.MinioBucket,
		MinioUseSSL:    cfg.MinioUseSSL,
		Tokens:         tokens,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer := server.New(server.Config{
		App:          appCore,
		UploadDir:    cfg.UploadDir,
		CookieSecure: cfg.CookieSecure,
	})

	handler := util.WithRequestID(util.WithRequestLog(util.WithCORS(cfg.CORSOrigin, httpServer.Router())))

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("estately server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
