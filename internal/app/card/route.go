package card

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/boards/:id/cards", handler.ListBoardCards)
	rg.POST("/columns/:id/cards", handler.CreateCard)
	rg.GET("/cards/:id", handler.GetCard)
	rg.PATCH("/cards/:id", handler.UpdateCard)
	rg.POST("/cards/:id/move", handler.MoveCard)
	rg.POST("/cards/:id/complete", handler.CompleteCard)
	rg.POST("/cards/:id/reopen", handler.ReopenCard)
	rg.DELETE("/cards/:id", handler.DeleteCard)

	rg.POST("/cards/:id/subtasks", handler.AddSubtask)
	rg.PATCH("/subtasks/:id", handler.UpdateSubtask)
	rg.DELETE("/subtasks/:id", handler.DeleteSubtask)

	rg.POST("/cards/:id/comments", handler.AddComment)
	rg.DELETE("/comments/:id", handler.DeleteComment)

	rg.POST("/cards/:id/labels", handler.AddLabel)
	rg.DELETE("/cards/:id/labels/:labelId", handler.RemoveLabel)
	rg.POST("/cards/:id/members", handler.AddMember)
	rg.DELETE("/cards/:id/members/:userId", handler.RemoveMember)

	rg.POST("/cards/:id/attachments", handler.UploadAttachment)
	rg.DELETE("/attachments/:id", handler.DeleteAttachment)

	rg.PUT("/cards/:id/recurrence", handler.SetRecurrence)
	rg.DELETE("/cards/:id/recurrence", handler.ClearRecurrence)
}
