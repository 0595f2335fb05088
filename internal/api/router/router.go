package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workly/backend/config"
	"workly/backend/internal/api/handler"
	"workly/backend/internal/api/middleware"
	"workly/backend/pkg/jwt"
	"workly/backend/pkg/redis"
)

// maxBodyBytes caps write payloads; a slot document is a few hundred
// bytes, so 1 MB leaves ample headroom.
const maxBodyBytes = 1 << 20

// Setup builds the Gin engine with the full route table. Reads require
// a valid platform token; mutations additionally require the admin
// role.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		presidio := v1.Group("/presidio")
		presidio.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			admin := middleware.RoleAuth("admin")

			templates := presidio.Group("/templates")
			{
				templates.GET("", h.Template.List)
				templates.GET("/:id", h.Template.Get)
				templates.GET("/:id/summary", h.Template.Summary)
				templates.GET("/:id/export", h.Export.Export)
				templates.GET("/:id/calendar.ics", h.Export.Calendar)
				templates.POST("", admin, h.Template.Create)
				templates.PUT("/:id", admin, h.Template.Update)
				templates.PUT("/:id/activate", admin, h.Template.SetActive(true))
				templates.PUT("/:id/deactivate", admin, h.Template.SetActive(false))
				templates.DELETE("/:id", admin, h.Template.Delete)
				templates.POST("/:id/coverages", admin, h.Coverage.Add)
			}

			coverages := presidio.Group("/coverages")
			{
				coverages.GET("", h.Query.Slots)
				coverages.PUT("/:id", admin, h.Coverage.Update)
				coverages.DELETE("/:id", admin, h.Coverage.Delete)
			}

			presidio.GET("/required-roles", h.Query.RequiredRoles)
		}
	}

	return r
}
