package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "jobboard-backend/internal/auth"
	"jobboard-backend/internal/applications"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/resumes"
	"jobboard-backend/internal/services/health"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config             config.Config
	Verifier           middleware.TokenVerifier
	Identities         middleware.IdentityResolver
	UserHandler        *users.Handler
	JobHandler         *jobs.Handler
	ApplicationHandler *applications.Handler
	ResumeHandler      *resumes.Handler
	Health             *health.Service
	GoogleAuth         *googleauth.GoogleService
	// UploadDir is served under /uploads when set.
	UploadDir string
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		telemetry.Error("server.trusted_proxies_invalid", map[string]any{"error": err.Error()})
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.ExposeErrorDetails(!deps.Config.IsProduction()),
		middleware.Recovery(),
		middleware.SecureHeaders(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rule: middleware.RuleForWindow(deps.Config.RateLimitMax, deps.Config.RateLimitWindow),
		}),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.UploadDir != "" {
		r.Static("/uploads", deps.UploadDir)
	}

	api := r.Group("/api")
	if deps.Health != nil {
		api.GET("/health", deps.Health.Handler)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.JobHandler != nil {
		deps.JobHandler.RegisterPublicRoutes(api)
	}

	private := api.Group("")
	private.Use(middleware.RequireAuth(deps.Verifier, deps.Identities))
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterPrivateRoutes(private)
	}
	if deps.JobHandler != nil {
		deps.JobHandler.RegisterRoutes(private, middleware.RequireRole(users.RoleEmployer))
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(private)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(private)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Route not found")
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
