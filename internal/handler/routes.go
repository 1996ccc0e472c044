package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the user and health endpoints on r.
func RegisterRoutes(r gin.IRouter, users *UserHandler, health *HealthHandler) {
	group := r.Group("/users")
	{
		group.GET("", users.ListUsers)
		group.POST("", users.CreateUser)
		group.POST("/login", users.Login)
		group.POST("/logout", users.Logout)
		group.GET("/:userId", users.GetUser)
		group.PUT("/:userId", users.UpdateUser)
	}

	r.GET("/health", health.Health)
}
