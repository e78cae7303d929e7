package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/ytgrab/api/handlers"
	"github.com/yourusername/ytgrab/api/middleware"
	"github.com/yourusername/ytgrab/internal/app"
	"github.com/yourusername/ytgrab/internal/domain"
)

// SetupRouter sets up the HTTP router for the media kind served by workspaces.
// history may be nil, in which case the history endpoints are not registered.
func SetupRouter(
	workspaces *app.WorkspaceManager,
	history domain.HistoryRepository,
	logger *zap.Logger,
	debug bool,
) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	kind := workspaces.Kind()
	api := router.Group("/api")
	{
		healthHandler := handlers.NewHealthHandler(kind)
		api.GET("/health", healthHandler.Health)

		mediaHandler := handlers.NewMediaHandler(workspaces, logger)
		api.POST(fmt.Sprintf("/extract-%s", kind), mediaHandler.Extract)
		api.GET(fmt.Sprintf("/download-%s/:request_id/:filename", kind), mediaHandler.Download)
		api.DELETE("/cleanup/:request_id", mediaHandler.Cleanup)

		if history != nil {
			historyHandler := handlers.NewHistoryHandler(history, logger)
			api.GET("/history", historyHandler.List)
			api.GET("/history/stats", historyHandler.Stats)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
	})

	return router
}
