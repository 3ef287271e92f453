package app

import (
	"fmt"
	"strings"

	"estately/pkg/storage"
	"estately/pkg/store"
	"estately/pkg/token"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	Tokens *token.Manager

	// Injectable backends for tests. Defaults are constructed from the
	// connection settings above when nil.
	Store   store.Store
	Media   storage.MediaStore
	Revoker store.TokenRevoker
}

// App is the core application service wiring storage, media and token logic.
type App struct {
	store   store.Store
	media   storage.MediaStore
	tokens  *token.Manager
	revoker store.TokenRevoker
}

// New constructs the application with database storage and object storage.
func New(cfg Config) (*App, error) {
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token manager required")
	}

	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}

	media := cfg.Media
	if media == nil {
		if cfg.MinioEndpoint == "" {
			return nil, fmt.Errorf("minio endpoint required")
		}
		var err error
		media, err = storage.NewMinioStore(
			cfg.MinioEndpoint,
			cfg.MinioAccessKey,
			cfg.MinioSecretKey,
			cfg.MinioBucket,
			cfg.MinioUseSSL,
		)
		if err != nil {
			return nil, fmt.Errorf("init minio store: %w", err)
		}
	}

	revoker := cfg.Revoker
	if revoker == nil {
		if strings.TrimSpace(cfg.RedisAddr) != "" {
			revoker = store.NewRedisTokenRevoker(cfg.RedisAddr, cfg.RedisPassword)
		} else {
			revoker = store.NewMemoryTokenRevoker()
		}
	}

	return &App{
		store:   dataStore,
		media:   media,
		tokens:  cfg.Tokens,
		revoker: revoker,
	}, nil
}

// Tokens exposes the token manager for transport-level middleware.
func (a *App) Tokens() *token.Manager {
	return a.tokens
}

// Revoker exposes the token revoker for transport-level middleware.
func (a *App) Revoker() store.TokenRevoker {
	return a.revoker
}
