package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cuetab/internal/handler/api"
	"cuetab/internal/handler/middleware"
	"cuetab/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, sessionHandler *api.SessionHandler, tableHandler *api.TableHandler, wsHandler *api.WSHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, sessionHandler, tableHandler, wsHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, sessionHandler *api.SessionHandler, tableHandler *api.TableHandler, wsHandler *api.WSHandler) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/ws", wsHandler.Serve)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		sessions := apiGroup.Group("/sessions")
		{
			addRoutes(sessions, []route{
				{Method: http.MethodPost, Path: "", Handler: sessionHandler.StartSession},
				{Method: http.MethodGet, Path: "", Handler: sessionHandler.ListSessions},
				{Method: http.MethodGet, Path: "/active", Handler: sessionHandler.ListActiveSessions},
				{Method: http.MethodGet, Path: "/:id", Handler: sessionHandler.GetSession},
				{Method: http.MethodPost, Path: "/:id/pause", Handler: sessionHandler.PauseSession},
				{Method: http.MethodPost, Path: "/:id/resume", Handler: sessionHandler.ResumeSession},
				{Method: http.MethodPost, Path: "/:id/end", Handler: sessionHandler.EndSession},
				{Method: http.MethodPost, Path: "/:id/services", Handler: sessionHandler.AddService},
				{Method: http.MethodDelete, Path: "/:id/services/:serviceId", Handler: sessionHandler.RemoveService},
			})
		}

		tables := apiGroup.Group("/tables")
		{
			addRoutes(tables, []route{
				{Method: http.MethodGet, Path: "", Handler: tableHandler.ListTables},
				{Method: http.MethodGet, Path: "/layout", Handler: tableHandler.GetActiveLayout},
				{Method: http.MethodGet, Path: "/:id", Handler: tableHandler.GetTable},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/tariffs", Handler: tableHandler.ListActiveTariffs},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
