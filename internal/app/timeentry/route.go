package timeentry

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.POST("/cards/:id/time-entries", handler.LogTime)
	rg.GET("/cards/:id/time-entries", handler.ListByCard)
	rg.GET("/time-entries", handler.ListMine)
	rg.PATCH("/time-entries/:id", handler.UpdateEntry)
	rg.DELETE("/time-entries/:id", handler.DeleteEntry)
}
