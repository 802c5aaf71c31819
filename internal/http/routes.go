package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/blogicum/internal/ws"
)

// RouteConfig carries the settings routes need beyond the handlers.
type RouteConfig struct {
	CORSOrigin string
	AdminToken string
}

// SetupRoutes configures all application routes and middleware.
func SetupRoutes(router *gin.Engine, env *Env, hub *ws.Hub, limiter *IPRateLimiter, cfg RouteConfig) {

	// --- Middleware ---

	router.Use(SecurityHeadersMiddleware())

	corsOrigin := cfg.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Token"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: corsOrigin != "*",
	}))

	// --- API Routes ---

	api := router.Group("/api", env.Identity())
	{
		api.GET("/posts", env.GetIndex)
		api.GET("/posts/:id", env.GetPost)
		api.GET("/categories/:slug", env.GetCategory)
		api.GET("/profile/:username", env.GetProfile)
	}

	write := api.Group("", env.RequireAuth())
	{
		write.POST("/posts", RateLimitMiddleware(limiter), env.CreatePost)
		write.PATCH("/posts/:id", env.UpdatePost)
		write.DELETE("/posts/:id", env.DeletePost)

		write.POST("/posts/:id/comments", RateLimitMiddleware(limiter), env.CreateComment)
		write.PATCH("/posts/:id/comments/:comment_id", env.UpdateComment)
		write.DELETE("/posts/:id/comments/:comment_id", env.DeleteComment)

		write.PATCH("/profile", env.UpdateProfile)
	}

	admin := router.Group("/api/admin", AdminAuthMiddleware(cfg.AdminToken))
	{
		admin.POST("/categories", env.AdminCreateCategory)
		admin.PATCH("/categories/:slug", env.AdminUpdateCategory)
		admin.DELETE("/categories/:slug", env.AdminDeleteCategory)

		admin.POST("/locations", env.AdminCreateLocation)
		admin.PATCH("/locations/:id", env.AdminUpdateLocation)
		admin.DELETE("/locations/:id", env.AdminDeleteLocation)

		admin.PATCH("/comments/:id", env.AdminModerateComment)
	}

	// --- WebSocket Route ---

	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(hub, c.Writer, c.Request)
	})
}
