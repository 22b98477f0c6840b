package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/draftarena/lobby-server/internal/auth"
	"github.com/draftarena/lobby-server/internal/config"
	"github.com/draftarena/lobby-server/internal/core"
	"github.com/draftarena/lobby-server/internal/store"
)

// NewServer builds the HTTP server: REST endpoints for credential issuance
// and user lookup, plus the websocket lobby route.
func NewServer(gateway *core.Gateway, authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	api := NewAPIHandlers(authService, st, logger)
	router.POST("/api/register", api.Register)
	router.POST("/api/login", api.Login)

	protected := router.Group("/api", AuthMiddleware(authService, logger))
	protected.GET("/me", api.Me)

	ws := NewWSHandler(gateway, logger)
	router.GET("/ws", ws.Handle)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
