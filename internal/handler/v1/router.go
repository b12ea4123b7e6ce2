package v1

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/config"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/service"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/auth"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/metrics"
)

type RouterDeps struct {
	Config            *config.Config
	Log               *zap.Logger
	Metrics           *metrics.Collector
	JWTManager        *auth.JWTManager
	TokenStore        service.TokenStore
	AuthHandler       *AuthHandler
	DoctorHandler     *DoctorHandler
	PatientHandler    *PatientHandler
	PredictionHandler *PredictionHandler
	InfoHandler       *InfoHandler
}

// NewRouter wires middleware and the /api/v1 route tree. Everything under
// /doctor sits behind the session guard.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(deps.Log))
	r.Use(Metrics(deps.Metrics))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     deps.Config.CORS.AllowedMethods,
		AllowHeaders:     deps.Config.CORS.AllowedHeaders,
		MaxAge:           deps.Config.CORS.MaxAge,
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	guard := Authenticated(deps.JWTManager, deps.TokenStore, deps.Log)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", deps.AuthHandler.Register)
			authGroup.POST("/login", deps.AuthHandler.Login)
			authGroup.POST("/refresh", deps.AuthHandler.Refresh)
			authGroup.POST("/logout", guard, deps.AuthHandler.Logout)
		}

		api.GET("/model-info", deps.InfoHandler.ModelInfo)
		api.GET("/contact", deps.InfoHandler.Contact)

		doctorGroup := api.Group("/doctor", guard, RequireDoctor())
		{
			doctorGroup.GET("/me", deps.DoctorHandler.Me)
			doctorGroup.GET("/dashboard", deps.DoctorHandler.Dashboard)

			doctorGroup.GET("/patients", deps.PatientHandler.List)
			doctorGroup.POST("/patients", deps.PatientHandler.Create)
			doctorGroup.GET("/patients/:id", deps.PatientHandler.Get)

			doctorGroup.POST("/patients/:id/analyses", deps.PredictionHandler.Analyze)
			doctorGroup.GET("/patients/:id/predictions", deps.PredictionHandler.ListForPatient)
			doctorGroup.POST("/patients/:id/predictions", deps.PredictionHandler.Save)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "route not found"})
	})

	return r
}
