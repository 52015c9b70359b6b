package http

import (
	"github.com/gin-gonic/gin"

	"academy-qabot/internal/bootstrap"
	"academy-qabot/internal/pkg/jwtutil"
	"academy-qabot/internal/transport/http/handler"
	"academy-qabot/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	qaHandler := handler.NewQAHandler(app.QA)
	filesHandler := handler.NewFilesHandler(app.Storage)

	var flusher handler.CacheFlusher
	if app.AnswerCache != nil {
		flusher = app.AnswerCache
	}
	ingestHandler := handler.NewIngestHandler(app.Ingest, flusher)

	v1 := router.Group("/api/v1")
	v1.POST("/ask", qaHandler.Ask)
	v1.GET("/files/*path", filesHandler.Download)
	if app.Auth != nil {
		authHandler := handler.NewAuthHandler(app.Auth)
		v1.POST("/auth/login", authHandler.Login)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret), middleware.RequireRole(jwtutil.RoleAdmin))
	admin.POST("/ingest", ingestHandler.Upload)
	admin.POST("/crawl", ingestHandler.Crawl)
	if app.QALogs != nil {
		logsHandler := handler.NewLogsHandler(app.QALogs)
		admin.GET("/logs", logsHandler.List)
	}

	return router
}
