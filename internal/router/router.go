package router

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-seat-api/internal/handler"
	"github.com/noah-isme/study-seat-api/internal/middleware"
	"github.com/noah-isme/study-seat-api/internal/models"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth         *handler.AuthHandler
	Registration *handler.RegistrationHandler
	SeatMap      *handler.SeatMapHandler
	Room         *handler.StudyRoomHandler
	Session      *handler.StudySessionHandler
	Issue        *handler.IssueHandler
	Metrics      *handler.MetricsHandler
}

// Guards are the middleware chains applied to route groups.
type Guards struct {
	Tokens    middleware.TokenValidator
	RateLimit gin.HandlerFunc
}

// Register mounts probes at the root and the API under prefix.
func Register(r *gin.Engine, prefix string, h Handlers, g Guards) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	requireAuth := middleware.JWT(g.Tokens)
	optionalAuth := middleware.OptionalJWT(g.Tokens)
	admin := middleware.RequireRoles(models.RoleAdmin)
	rateLimit := g.RateLimit
	if rateLimit == nil {
		rateLimit = func(c *gin.Context) { c.Next() }
	}

	api := r.Group(prefix)
	api.Use(middleware.WithResponseMeta())

	api.POST("/auth", h.Auth.Token)

	registrations := api.Group("/registrations")
	registrations.POST("", rateLimit, h.Registration.Register)
	registrations.GET("/:id", requireAuth, admin, h.Registration.Get)
	registrations.POST("/:id/cancel", requireAuth, admin, h.Registration.Cancel)

	sessions := api.Group("/sessions")
	sessions.GET("", h.Session.List)
	sessions.GET("/:id", h.Session.Get)
	sessions.POST("", requireAuth, admin, h.Session.Create)
	sessions.PUT("/:id", requireAuth, admin, h.Session.Update)
	sessions.DELETE("/:id", requireAuth, admin, h.Session.Delete)
	sessions.GET("/:id/registrations/:yyyy/:mm/:dd", optionalAuth, h.SeatMap.Get)
	sessions.GET("/:id/registrations/:yyyy/:mm/:dd/export", requireAuth, admin, h.SeatMap.Export)

	rooms := api.Group("/rooms")
	rooms.GET("", h.Room.List)
	rooms.GET("/:id", h.Room.Get)
	rooms.POST("", requireAuth, admin, h.Room.Create)
	rooms.PUT("/:id", requireAuth, admin, h.Room.Update)
	rooms.DELETE("/:id", requireAuth, admin, h.Room.Delete)

	issues := api.Group("/issues")
	issues.GET("", h.Issue.ListTypes)
	issues.GET("/:id", h.Issue.GetType)
	issues.POST("", requireAuth, admin, h.Issue.CreateType)
	issues.PUT("/:id", requireAuth, admin, h.Issue.UpdateType)
	issues.DELETE("/:id", requireAuth, admin, h.Issue.DeleteType)
	issues.POST("/assign/:registrationId", requireAuth, admin, h.Issue.Assign)
	issues.POST("/memo/:registrationId", requireAuth, admin, h.Issue.Memo)
	issues.GET("/student/:registrationId", requireAuth, admin, h.Issue.ForRegistration)
}
