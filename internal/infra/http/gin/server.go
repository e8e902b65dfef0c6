package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"shortify/internal/infra/config"
	"shortify/internal/infra/obs"
)

type ShortHTTP interface {
	List(c *gin.Context)
	ListByAuthor(c *gin.Context)
	ListByTag(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type TagHTTP interface {
	List(c *gin.Context)
	ListByShort(c *gin.Context)
	Create(c *gin.Context)
	Rename(c *gin.Context)
	RenameOnShort(c *gin.Context)
	Delete(c *gin.Context)
	Clear(c *gin.Context)
	Remove(c *gin.Context)
}

type ReportHTTP interface {
	List(c *gin.Context)
	ListMine(c *gin.Context)
	ListByShort(c *gin.Context)
	GetMine(c *gin.Context)
	Submit(c *gin.Context)
	Retract(c *gin.Context)
	TopReported(c *gin.Context)
}

type Handlers struct {
	Shorts   ShortHTTP
	Tags     TagHTTP
	Reports  ReportHTTP
	Identity gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-User-ID", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.Identity != nil {
		router.Use(h.Identity)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Shorts != nil {
		api.GET("/shorts", h.Shorts.List)
		api.POST("/shorts", h.Shorts.Create)
		api.GET("/shorts/:id", h.Shorts.Get)
		api.PUT("/shorts/:id", h.Shorts.Update)
		api.DELETE("/shorts/:id", h.Shorts.Delete)
		api.GET("/authors/:id/shorts", h.Shorts.ListByAuthor)
		api.GET("/tags/:tag/shorts", h.Shorts.ListByTag)
	}
	if h.Tags != nil {
		api.GET("/tags", h.Tags.List)
		api.POST("/tags/rename", h.Tags.Rename)
		api.DELETE("/tags/:tag", h.Tags.Delete)
		api.GET("/shorts/:id/tags", h.Tags.ListByShort)
		api.POST("/shorts/:id/tags", h.Tags.Create)
		api.POST("/shorts/:id/tags/rename", h.Tags.RenameOnShort)
		api.DELETE("/shorts/:id/tags", h.Tags.Clear)
		api.DELETE("/shorts/:id/tags/:tag", h.Tags.Remove)
	}
	if h.Reports != nil {
		api.GET("/reports", h.Reports.List)
		api.GET("/reports/top", h.Reports.TopReported)
		api.GET("/me/reports", h.Reports.ListMine)
		api.GET("/shorts/:id/reports", h.Reports.ListByShort)
		api.POST("/shorts/:id/reports", h.Reports.Submit)
		api.DELETE("/shorts/:id/reports", h.Reports.Retract)
		api.GET("/shorts/:id/report", h.Reports.GetMine)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
