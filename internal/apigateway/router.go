package apigateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tts-eval-platform/backend/internal/auth"
	"tts-eval-platform/backend/internal/catalogmanagement"
	"tts-eval-platform/backend/internal/dashboard"
	"tts-eval-platform/backend/internal/evaluationmanagement"
)

// Handlers bundles the feature handlers wired into the router.
type Handlers struct {
	Auth       *auth.Handler
	Sessions   *auth.SessionStore
	Evaluation *evaluationmanagement.Handler
	Dashboard  *dashboard.Handler
	Catalog    *catalogmanagement.Handler
}

// SetupRouter builds the gin router: public auth routes, session-protected
// evaluation routes, and admin-only dashboard and catalog routes.
func SetupRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.RegisterHandler)
		authRoutes.POST("/login", h.Auth.LoginHandler)
		authRoutes.POST("/logout", h.Auth.LogoutHandler)
	}

	api := router.Group("/api")
	api.Use(auth.RequireSession(h.Sessions))
	{
		api.GET("/mos/batch", h.Evaluation.MOSBatchHandler)
		api.POST("/mos/ratings", h.Evaluation.SubmitMOSRatingHandler)
		api.GET("/ab/batch", h.Evaluation.ABBatchHandler)
		api.POST("/ab/verdicts", h.Evaluation.SubmitABVerdictHandler)
		api.GET("/models", h.Catalog.ListModelsHandler)
	}

	// Audio playback needs a session but no admin rights.
	audio := router.Group("/audio")
	audio.Use(auth.RequireSession(h.Sessions))
	{
		audio.GET("/:object", h.Catalog.ServeAudioHandler)
	}

	admin := router.Group("/admin")
	admin.Use(auth.RequireSession(h.Sessions), auth.RequireAdmin())
	{
		admin.GET("/dashboard/mos", h.Dashboard.MOSSummaryHandler)
		admin.GET("/dashboard/mos/export", h.Dashboard.MOSExportHandler)
		admin.GET("/dashboard/ab", h.Dashboard.ABSummaryHandler)

		admin.POST("/models", h.Catalog.CreateModelHandler)
		admin.GET("/samples", h.Catalog.ListSamplesHandler)
		admin.POST("/samples", h.Catalog.CreateSampleHandler)
		admin.POST("/samples/import", h.Catalog.ImportSamplesHandler)
		admin.POST("/audio", h.Catalog.UploadAudioHandler)
	}

	return router
}
