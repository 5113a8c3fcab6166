package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"pickup/internal/config"
	"pickup/internal/handler"
	"pickup/internal/middleware"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Profiles    *handler.ProfileHandler
	Requests    *handler.RequestHandler
	Trips       *handler.TripHandler
	Invitations *handler.InvitationHandler
	Reviews     *handler.ReviewHandler
	Reports     *handler.ReportHandler
	Admin       *handler.AdminHandler
	WS          *handler.WSHandler
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(cfg *config.Config, nrApp *newrelic.Application, redisClient *redis.Client, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	if nrApp != nil {
		router.Use(nrgin.Middleware(nrApp))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))
	if redisClient != nil {
		v1.Use(middleware.IdempotencyMiddleware(redisClient))
	}

	profiles := v1.Group("/profiles")
	{
		profiles.POST("", h.Profiles.Register)
		profiles.GET("/me", h.Profiles.Me)
		profiles.POST("/me/documents", h.Profiles.SubmitDocument)
		profiles.GET("/me/documents", h.Profiles.MyDocuments)
	}

	requests := v1.Group("/requests")
	{
		requests.POST("", h.Requests.Create)
		requests.GET("", h.Requests.ListMine)
		requests.GET("/available", h.Requests.ListAvailable)
		requests.GET("/:id", h.Requests.Get)
		requests.POST("/:id/cancel", h.Requests.Cancel)
	}

	trips := v1.Group("/trips")
	{
		trips.POST("", h.Trips.Create)
		trips.GET("", h.Trips.ListMine)
		trips.GET("/:id", h.Trips.Get)
		trips.POST("/:id/start", h.Trips.Start)
		trips.POST("/:id/arrive", h.Trips.Arrive)
		trips.POST("/:id/complete", h.Trips.Complete)
		trips.POST("/:id/cancel-unmet", h.Trips.CancelUnmet)
		trips.POST("/:id/participants/:requestID/met", h.Trips.MarkMet)
		trips.POST("/:id/participants/:requestID/pickup", h.Trips.MarkPickedUp)
		trips.POST("/:id/reviews", h.Reviews.Create)
	}

	invitations := v1.Group("/invitations")
	{
		invitations.POST("", h.Invitations.Send)
		invitations.GET("", h.Invitations.ListMine)
		invitations.GET("/trip/:tripID", h.Invitations.ListForTrip)
		invitations.GET("/request/:requestID", h.Invitations.ListForRequest)
		invitations.GET("/:id", h.Invitations.Get)
		invitations.POST("/:id/accept", h.Invitations.Accept)
		invitations.POST("/:id/reject", h.Invitations.Reject)
	}

	v1.GET("/reviews/provider/:profileID", h.Reviews.ListForProvider)
	v1.GET("/reports/calendar", h.Reports.Calendar)

	admin := v1.Group("/admin")
	{
		admin.GET("/stats", h.Admin.Stats)
		admin.POST("/trips/:id/status", h.Admin.ForceTripStatus)
		admin.POST("/documents/:id/review", h.Admin.ReviewDocument)
	}

	v1.GET("/ws", h.WS.Connect)

	return router
}
