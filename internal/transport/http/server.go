package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yapli/yapli-server/internal/auth"
	"github.com/yapli/yapli-server/internal/config"
	"github.com/yapli/yapli-server/internal/core"
	"github.com/yapli/yapli-server/internal/store"
)

// NewServer builds the HTTP server: REST API for room management and
// history, plus the websocket endpoint bridging into the coordinator.
func NewServer(coord *core.Coordinator, authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery())

	apiHandlers := NewAPIHandlers(authService, logger)
	roomHandlers := NewRoomHandlers(st, logger)
	messageHandlers := NewMessageHandlers(coord, st, cfg, logger)
	wsHandler := NewWSHandler(coord, st, cfg, logger)

	router.GET("/health", healthHandler(coord))
	router.GET("/ws", gin.WrapH(wsHandler))

	api := router.Group("/api")
	{
		api.POST("/register", apiHandlers.Register)
		api.POST("/login", apiHandlers.Login)

		// Participants are anonymous: checking a room and reading/writing
		// its messages requires no account.
		api.POST("/rooms/check", roomHandlers.CheckRoom)
		api.GET("/rooms/:code/messages", messageHandlers.ListMessages)
		api.POST("/rooms/:code/messages", messageHandlers.AppendMessage)

		authed := api.Group("")
		authed.Use(AuthMiddleware(authService, logger))
		{
			authed.POST("/rooms", roomHandlers.CreateRoom)
			authed.GET("/rooms", roomHandlers.ListRooms)
			authed.DELETE("/rooms/:code", roomHandlers.DeleteRoom)
		}
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(coord *core.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, gin.H{
			"status":      "ok",
			"connections": coord.ConnCount(),
			"rooms":       coord.RoomCount(),
		})
	}
}
