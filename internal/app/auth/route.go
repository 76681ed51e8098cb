package auth

import "github.com/gin-gonic/gin"

// Routes are public: registered outside the auth middleware.
func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.POST("/auth/register", handler.Register)
	rg.POST("/auth/login", handler.Login)
}
