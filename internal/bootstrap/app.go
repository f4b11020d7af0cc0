package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/applications"
	googleauth "jobboard-backend/internal/auth"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/resumes"
	"jobboard-backend/internal/services/health"
	sharedauth "jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/server"
	"jobboard-backend/internal/shared/storage/db"
	"jobboard-backend/internal/shared/storage/object"
	localstore "jobboard-backend/internal/shared/storage/object/local"
	s3store "jobboard-backend/internal/shared/storage/object/s3"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config              config.Config
	Router              *gin.Engine
	DB                  *sql.DB
	Store               object.ObjectStore
	Signer              *sharedauth.Signer
	UsersService        *users.Service
	JobsService         *jobs.Service
	ApplicationsService *applications.Service
	ResumesService      *resumes.Service
}

// Build prepares dependencies and the router. Without DATABASE_URL in a
// dev-like environment the in-memory repositories are used.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	signer, err := sharedauth.NewSigner(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, cfg.Env)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Signer: signer,
	}
	app.Router = buildRouter(app)
	return app, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.UploadDir), nil
	}
}

func buildRouter(app *App) *gin.Engine {
	var (
		userRepo   users.Repo
		jobRepo    jobs.Repo
		appRepo    applications.Repo
		resumeRepo resumes.Repo
		pinger     health.Pinger
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		appRepo = &applications.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		pinger = app.DB
	} else {
		userRepo = users.NewMemoryRepo()
		jobRepo = jobs.NewMemoryRepo()
		appRepo = applications.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
	}

	usersSvc := users.NewService(userRepo, app.Signer)
	jobsSvc := jobs.NewService(jobRepo, usersSvc, appRepo)
	resumesSvc := resumes.NewService(resumeRepo, app.Store, appRepo)
	appsSvc := applications.NewService(appRepo, jobsSvc, usersSvc, resumesSvc)

	app.UsersService = usersSvc
	app.JobsService = jobsSvc
	app.ResumesService = resumesSvc
	app.ApplicationsService = appsSvc

	deps := server.RouterDeps{
		Config:             app.Config,
		Verifier:           app.Signer,
		Identities:         usersSvc,
		UserHandler:        users.NewHandler(usersSvc),
		JobHandler:         jobs.NewHandler(jobsSvc),
		ApplicationHandler: applications.NewHandler(appsSvc),
		ResumeHandler:      resumes.NewHandler(resumesSvc),
		Health:             health.NewService(pinger, jobsSvc),
		GoogleAuth: googleauth.NewGoogleService(
			app.Config.GoogleClientID,
			app.Config.GoogleClientSecret,
			app.Config.GoogleRedirectURL,
			app.Config.UIRedirectURL,
			usersSvc,
		),
	}
	if local, ok := app.Store.(*localstore.Store); ok {
		deps.UploadDir = local.BaseDir()
	}
	return server.NewRouter(deps)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
