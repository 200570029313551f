package api

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsPath = "/metrics"
	pingPath    = "/api/ping"
)

// SetupRouter wires middleware and routes. gatherer backs the /metrics endpoint.
func SetupRouter(group *HandlersGroup, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware(metricsPath, pingPath))
	r.Use(middleware.CORSMiddleware(config.Cfg.Server.AllowOrigins))
	logger.SetupGin(r, metricsPath, pingPath)

	r.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
			})
		})

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.PostHandler.ListPosts)
				authOptGroup.GET("/:post_id", group.PostHandler.GetPost)
				authOptGroup.POST("/:post_id/view", group.PostActionHandler.TrackView)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/recommend", group.PostHandler.RecommendPost)
				authGroup.GET("/bookmarks", group.PostActionHandler.GetBookmarks)
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:post_id", group.PostHandler.UpdatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.POST("/:post_id/bookmark", group.PostActionHandler.ToggleBookmark)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		{
			commentGroup.GET("/:post_id", middleware.AuthOptionalMiddleware(), group.CommentHandler.GetThread)

			authGroup := commentGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.CommentHandler.CreateComment)
				authGroup.DELETE("/:comment_id", group.CommentHandler.DeleteComment)
			}
		}

		apiGroup.GET("/explore", group.ExploreHandler.TopTags)

		userGroup := apiGroup.Group("/user")
		userGroup.Use(middleware.AuthMiddleware())
		{
			userGroup.POST("/logout", group.UserHandler.Logout)
			userGroup.GET("/profile", group.UserHandler.GetProfile)
			userGroup.PUT("/interests", group.UserHandler.UpdateInterests)
		}

		modGroup := apiGroup.Group("/moderation")
		modGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleModerator, consts.RoleAdmin))
		{
			modGroup.POST("/explore/refresh", group.ExploreHandler.RefreshTopTags)
		}
	}

	return r
}
