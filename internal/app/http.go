package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Veaberji/Auth/internal/account"
	"github.com/Veaberji/Auth/internal/config"
	"github.com/Veaberji/Auth/internal/handler"
	"github.com/Veaberji/Auth/internal/logger"
	"github.com/Veaberji/Auth/internal/middleware"
	"github.com/Veaberji/Auth/internal/role"
	"github.com/Veaberji/Auth/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	sessions := session.NewManager(
		sessionStore,
		cfg.SessionTTL,
		cfg.SessionAbsoluteTTL,
		session.CookieOptions{
			Secure:   cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		},
	)

	accounts := account.NewPostgresStore(infra.DB)
	roles := role.NewPostgresStore(infra.DB)

	// The banned role must exist before any request is served.
	if err := role.Seed(ctx, roles); err != nil {
		return nil, nil, err
	}
	logger.Info("banned role seeded", map[string]any{"role": role.Banned})

	service := account.NewService(accounts, roles, sessions)
	accountHandler := handler.NewHandler(service)

	banGuard := middleware.NewBanGuard(sessions, accounts, roles)
	authMiddleware := middleware.NewAuthMiddleware(sessions)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// Ban enforcement runs on every request, before any handler logic.
	router.Use(middleware.GinBridge(banGuard.Enforce))

	// ----------------------------
	// Routes
	// ----------------------------

	accountHandler.RegisterRoutes(router, authMiddleware)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
