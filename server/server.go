package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"musiclib/cache"
	"musiclib/config"
	"musiclib/core/auth"
	"musiclib/core/music"
	"musiclib/db"
	"musiclib/logger"
	"musiclib/repository"
	"musiclib/storage"

	"github.com/gorilla/mux"
)

// Dependencies are the collaborators the router needs. Assets may be nil, in
// which case the /storage/music route is not mounted.
type Dependencies struct {
	Music  *music.Service
	Tokens *auth.TokenManager
	Assets AssetSource
}

// NewRouter builds the HTTP handler for deps.
func NewRouter(deps Dependencies) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(authenticate(deps.Tokens))
	NewMusicHandler(deps.Music).register(api)

	if deps.Assets != nil {
		router.HandleFunc("/storage/music/{filename:.+}", NewAssetHandler(deps.Assets).Serve).
			Methods(http.MethodGet, http.MethodHead)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not Found")
	})

	// Wrapped outside the router so preflight and unmatched requests are covered too.
	return accessLog(cors(router))
}

// Start wires the configured stores and serves HTTP until SIGINT or SIGTERM.
func Start(cfg *config.Config) error {
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("JWT_SECRET: %w", err)
	}

	gdb, err := db.ConnectGormDB(cfg)
	if err != nil {
		return err
	}
	defer db.CloseGormDB(gdb)

	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}

	repo := repository.NewGormMusicRepository(gdb)

	if cfg.CacheEnabled() {
		client, err := cache.ConnectRedis(cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		repo = repository.NewCachedMusicRepository(repo, cache.NewRedisEntryCache(client, cfg.CacheTTL))
		logger.Info("Entry cache enabled", logger.String("redis", cfg.RedisHost), logger.Duration("ttl", cfg.CacheTTL))
	}

	deps := Dependencies{
		Music:  music.NewService(repo),
		Tokens: tokens,
	}

	if cfg.AssetsEnabled() {
		assets, err := storage.NewAssetStore(context.Background(), cfg)
		if err != nil {
			return err
		}
		deps.Assets = assets
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      NewRouter(deps),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-stop:
	}

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
