package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classmap-server-go/web"
)

const sessionName = "classmap"

// NewRouter wires the page, the API, and visitor sessions.
func NewRouter(h *APIHandler, sessionSecret string, logger *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger), gin.Recovery())

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, store))

	router.SetHTMLTemplate(web.Templates())
	router.StaticFS("/static", web.Static())

	router.GET("/", h.Index)

	api := router.Group("/api")
	{
		api.GET("/ping", PingHandler)

		// Dataset routes
		api.GET("/schools", h.GetSchools)
		api.GET("/schools/:schoolId", h.GetSchoolByID)
		api.GET("/students", h.GetStudents)
		api.GET("/markers", h.GetMarkers)
		api.GET("/roster", h.GetRoster)
		api.GET("/roster.xlsx", h.ExportRoster)

		// Page state routes
		api.GET("/state", h.GetState)
		api.POST("/viewport", h.SetViewport)
		api.POST("/fly", h.FlyToSchool)
		api.POST("/markers/:index/click", h.ClickMarker)
		api.POST("/reset", h.FlyToReset)
		api.POST("/menu/open", h.OpenMenu)
		api.POST("/menu/close", h.CloseMenu)
		api.POST("/menu/toggle", h.ToggleMenu)
	}

	return router
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
