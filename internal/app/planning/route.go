package planning

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.POST("/boards/:id/planning", handler.CreateRecord)
	rg.GET("/boards/:id/planning", handler.ListRecords)
	rg.PATCH("/planning/:id", handler.UpdateRecord)
	rg.DELETE("/planning/:id", handler.DeleteRecord)
}
