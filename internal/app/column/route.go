package column

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/boards/:id/columns", handler.ListColumns)
	rg.POST("/boards/:id/columns", handler.CreateColumn)
	rg.PATCH("/columns/:id", handler.UpdateColumn)
	rg.POST("/columns/:id/move", handler.MoveColumn)
	rg.DELETE("/columns/:id", handler.DeleteColumn)
}
