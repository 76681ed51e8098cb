package user

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/users/me", handler.GetMe)
	rg.PATCH("/users/me", handler.UpdateMe)
	rg.GET("/users", handler.SearchUsers)
}
