package automation

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.POST("/boards/:id/automation-rules", handler.CreateRule)
	rg.GET("/boards/:id/automation-rules", handler.ListRules)
	rg.GET("/automation-rules/:id", handler.GetRule)
	rg.PATCH("/automation-rules/:id", handler.UpdateRule)
	rg.DELETE("/automation-rules/:id", handler.DeleteRule)
	rg.GET("/automation-rules/:id/executions", handler.ListExecutions)
}
