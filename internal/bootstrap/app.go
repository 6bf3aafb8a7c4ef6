package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-vault/internal/ai"
	googleauth "resume-vault/internal/auth"
	"resume-vault/internal/generations"
	"resume-vault/internal/pdfcompile"
	"resume-vault/internal/profiles"
	"resume-vault/internal/queue"
	"resume-vault/internal/render"
	"resume-vault/internal/services/health"
	"resume-vault/internal/shared/auth"
	"resume-vault/internal/shared/config"
	"resume-vault/internal/shared/server"
	"resume-vault/internal/shared/storage/db"
	"resume-vault/internal/shared/storage/object"
	localstore "resume-vault/internal/shared/storage/object/local"
	s3store "resume-vault/internal/shared/storage/object/s3"
	"resume-vault/internal/shared/telemetry"
	"resume-vault/internal/tailoring"
)

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Store              object.ObjectStore
	Queue              queue.Client
	Provider           ai.Provider
	ProfilesService    *profiles.Service
	GenerationsService *generations.Service
	Tailoring          *tailoring.Service
	ProfilesHandler    *profiles.Handler
	ResumesHandler     *tailoring.Handler
	GoogleAuth         *googleauth.GoogleService
	Health             *health.Service
}

// Options tweak Build for callers that do not serve HTTP.
type Options struct {
	// SkipRouter leaves App.Router nil.
	SkipRouter bool
	// SkipProvider leaves App.Provider nil; render workers never call the model.
	SkipProvider bool
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	return BuildWithOptions(context.Background(), cfg, Options{})
}

// BuildWithOptions is Build with explicit context and options.
func BuildWithOptions(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var provider ai.Provider
	if !opts.SkipProvider {
		if provider, err = ai.NewProvider(cfg.AI); err != nil {
			return nil, err
		}
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Queue:    queueClient,
		Provider: provider,
		Health:   health.NewService(),
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}
	registerChecks(app)

	if !opts.SkipRouter {
		verifier, err := buildVerifier(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.Router = server.NewRouter(server.RouterDeps{
			Config:    app.Config,
			Verifier:  verifier,
			Profiles:  app.ProfilesHandler,
			Resumes:   app.ResumesHandler,
			Google:    app.GoogleAuth,
			Health:    app.Health,
			DebugMode: isDevLike(cfg.Env),
		})
	}

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	rt := db.DetectRuntime()
	if rt == db.RuntimeLambda {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.PoolOptions(rt))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.PoolOptions(rt))
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	// Dev databases are migrated on boot; other environments run cmd/migrate.
	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.RenderQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.RenderQueueURL, cfg.AWSRegion)
}

func buildVerifier(ctx context.Context, cfg config.Config) (auth.Verifier, error) {
	signer, err := auth.NewSessionSigner(cfg.JWTSecret, cfg.Env)
	if err != nil {
		return nil, err
	}
	v := auth.ChainVerifier{Session: signer}
	if strings.TrimSpace(cfg.JWKSURL) != "" {
		if v.JWKS, err = auth.NewJWKSVerifier(ctx, cfg.JWKSURL); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func buildServices(ctx context.Context, app *App) error {
	cfg := app.Config

	var (
		profileRepo    profiles.Repo
		generationRepo generations.Repo
	)
	if app.DB != nil {
		profileRepo = &profiles.PGRepo{DB: app.DB}
		generationRepo = &generations.PGRepo{DB: app.DB}
	} else {
		profileRepo = profiles.NewMemoryRepo()
		generationRepo = generations.NewMemoryRepo()
	}

	profileSvc := &profiles.Service{Repo: profileRepo}
	generationSvc := &generations.Service{Repo: generationRepo}

	latex, err := pdfcompile.NewLaTeXCompiler(pdfcompile.LaTeXOptions{
		Mode:      pdfcompile.Mode(cfg.LaTeXCompiler),
		RemoteURL: cfg.LaTeXRemoteURL,
		Timeout:   cfg.LaTeXTimeout,
	})
	if err != nil {
		return err
	}

	tailoringSvc := &tailoring.Service{
		Profiles:      profileSvc,
		Provider:      app.Provider,
		Generations:   generationSvc,
		HTMLCompiler:  &pdfcompile.HTMLCompiler{ChromePath: cfg.ChromePath},
		LaTeXCompiler: latex,
		Store:         app.Store,
		Queue:         app.Queue,
		Strategy:      tailoring.ParseStrategy(cfg.RenderStrategy),
		Merge:         render.ParseMergeStrategy(cfg.MergeStrategy),
	}

	signer, err := auth.NewSessionSigner(cfg.JWTSecret, cfg.Env)
	if err != nil {
		return err
	}
	states, err := buildStateStore(ctx, cfg)
	if err != nil {
		return err
	}
	googleSvc := googleauth.NewGoogleService(googleauth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		UIRedirect:   cfg.UIRedirectURL,
	}, states, signer, profileSvc)

	app.ProfilesService = profileSvc
	app.GenerationsService = generationSvc
	app.Tailoring = tailoringSvc
	app.ProfilesHandler = profiles.NewHandler(profileSvc)
	app.ResumesHandler = tailoring.NewHandler(tailoringSvc)
	app.GoogleAuth = googleSvc

	if app.ProfilesHandler == nil || app.ResumesHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

func buildStateStore(ctx context.Context, cfg config.Config) (googleauth.StateStore, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return googleauth.NewMemoryStateStore(), nil
	}
	store, err := googleauth.NewRedisStateStore(ctx, cfg.RedisURL)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_state_store", map[string]any{"error": err.Error()})
			return googleauth.NewMemoryStateStore(), nil
		}
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return store, nil
}

func registerChecks(app *App) {
	if app.DB != nil {
		app.Health.Register("database", health.CheckFunc(app.DB.PingContext))
	}
	if app.Provider != nil {
		p := app.Provider
		app.Health.Register("ai", health.CheckFunc(func(ctx context.Context) error {
			if !p.HealthCheck(ctx) {
				return fmt.Errorf("%s provider unreachable", p.Name())
			}
			return nil
		}))
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
