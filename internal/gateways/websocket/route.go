package websocket

import "github.com/gin-gonic/gin"

func RegisterRoutes(engine *gin.Engine, hub *Hub, jwtSecret string) {
	engine.GET("/ws", hub.ServeWS(jwtSecret))
}
