package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/app/activity"
	"taskboard/internal/app/auth"
	"taskboard/internal/app/automation"
	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/app/column"
	"taskboard/internal/app/directory"
	"taskboard/internal/app/health"
	"taskboard/internal/app/label"
	"taskboard/internal/app/notification"
	"taskboard/internal/app/planning"
	"taskboard/internal/app/timeentry"
	"taskboard/internal/app/user"
	"taskboard/internal/gateways/websocket"
	"taskboard/internal/middleware"
)

type Router struct {
	Engine *gin.Engine
	api    *gin.RouterGroup
}

// NewRouter builds the engine with the shared middleware chain. Everything
// under /api requires a bearer token; auth, health and the websocket upgrade
// stay public.
func NewRouter(logger *zap.Logger, jwtSecret string) *Router {
	engine := gin.New()
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtSecret))

	return &Router{Engine: engine, api: api}
}

func (r *Router) RegisterAuthRoutes(handler auth.Handler) {
	auth.RegisterRoutes(r.Engine, handler)
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine, handler)
}

func (r *Router) RegisterWebSocketRoutes(hub *websocket.Hub, jwtSecret string) {
	websocket.RegisterRoutes(r.Engine, hub, jwtSecret)
}

func (r *Router) RegisterUserRoutes(handler user.Handler) {
	user.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterBoardRoutes(handler board.Handler) {
	board.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterColumnRoutes(handler column.Handler) {
	column.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterCardRoutes(handler card.Handler) {
	card.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterLabelRoutes(handler label.Handler) {
	label.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterActivityRoutes(handler activity.Handler) {
	activity.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterTimeEntryRoutes(handler timeentry.Handler) {
	timeentry.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterNotificationRoutes(handler notification.Handler) {
	notification.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterAutomationRoutes(handler automation.Handler) {
	automation.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterPlanningRoutes(handler planning.Handler) {
	planning.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterDirectoryRoutes(handler directory.Handler) {
	directory.RegisterRoutes(r.api, handler)
}
