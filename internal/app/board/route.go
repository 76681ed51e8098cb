package board

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/boards", handler.ListBoards)
	rg.POST("/boards", handler.CreateBoard)
	rg.GET("/boards/:id", handler.GetBoard)
	rg.PATCH("/boards/:id", handler.UpdateBoard)
	rg.DELETE("/boards/:id", handler.DeleteBoard)
	rg.POST("/boards/:id/members", handler.AddMember)
	rg.DELETE("/boards/:id/members/:userId", handler.RemoveMember)
}
