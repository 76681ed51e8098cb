package notification

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/notifications", handler.ListNotifications)
	rg.GET("/notifications/unread-count", handler.UnreadCount)
	rg.POST("/notifications/:id/read", handler.MarkRead)
	rg.POST("/notifications/read-all", handler.MarkAllRead)
	rg.DELETE("/notifications", handler.Clear)
}
