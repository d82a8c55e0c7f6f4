package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		// Public routes (no authentication required)
		users.POST("", r.userHandler.Create)
		users.GET("", r.userHandler.List)
		users.POST("/auth", r.authHandler.Authenticate)

		// Protected routes (bearer token required)
		protected := users.Group("")
		protected.Use(r.authMw.RequireAuth())
		{
			protected.PUT("/:id", r.userHandler.Update)
			protected.DELETE("/:id", r.userHandler.Delete)
		}
	}
}
