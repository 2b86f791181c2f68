package router

import (
	"context"
	"errors"
	"time"

	authsvc "estate-backend/internal/application/auth"
	personalsvc "estate-backend/internal/application/personalization"
	prefsvc "estate-backend/internal/application/preferences"
	propsvc "estate-backend/internal/application/properties"
	usersvc "estate-backend/internal/application/user"
	"estate-backend/internal/config"
	"estate-backend/internal/infrastructure/database"
	"estate-backend/internal/infrastructure/store"
	authhandler "estate-backend/internal/interfaces/handlers/auth"
	healthhandler "estate-backend/internal/interfaces/handlers/health"
	personalhandler "estate-backend/internal/interfaces/handlers/personalization"
	prefhandler "estate-backend/internal/interfaces/handlers/preferences"
	prophandler "estate-backend/internal/interfaces/handlers/properties"
	userhandler "estate-backend/internal/interfaces/handlers/user"
	"estate-backend/internal/middleware"
	"estate-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const migrateTimeout = 30 * time.Second

var ErrDatabaseURLRequired = errors.New("DATABASE_URL is required")

// CreateApp opens the database and Redis, migrates the schema, and registers every route.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, ErrDatabaseURLRequired
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := database.AutoMigrate(db.WithContext(ctx)); err != nil {
		return nil, nil, nil, err
	}
	if err := database.SeedPropertyTypes(ctx, db); err != nil {
		return nil, nil, nil, err
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.NewErrorHandler(rdb),
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.Tracing())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RouteLogger())

	// Health and metrics
	hh := &healthhandler.Handlers{Rdb: rdb, HealthAdminKey: cfg.HealthAdminKey}
	if sqlDB, err := db.DB(); err == nil {
		hh.DB = sqlDB
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/reset", hh.Reset)
	app.Get("/health/errors", hh.Errors)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	gormStore := &store.GormStore{DB: db}
	var preferenceStore store.PreferenceStore = gormStore
	if cfg.PreferenceCacheTTL > 0 {
		preferenceStore = &store.CachedPreferenceStore{Next: gormStore, Rdb: rdb, TTL: cfg.PreferenceCacheTTL}
	}

	// Auth
	ah := &authhandler.Handlers{
		UserFinder: &authsvc.GormUserFinder{DB: db},
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	// Users
	uh := &userhandler.Handlers{Service: &usersvc.Service{DB: db}, Rdb: rdb, Config: sessionCfg}
	app.Post("/api/users/register", uh.Register)
	ug := app.Group("/api/users", middleware.RequireAuth())
	ug.Get("/me", uh.Profile)
	ug.Post("/", middleware.AuthorizePermission(constants.ManageUsers), uh.CreateStaff)

	// Properties
	ph := &prophandler.Handlers{Service: &propsvc.Service{DB: db, Listings: gormStore}}
	pzh := &personalhandler.Handlers{Service: &personalsvc.Service{
		Preferences:    preferenceStore,
		Listings:       gormStore,
		Fallback:       cfg.NoPreferenceFallback,
		CandidateLimit: cfg.CandidateLimit,
	}}
	app.Get("/api/property-types", ph.Types)
	app.Get("/api/projects", ph.Projects)
	app.Post("/api/projects", middleware.RequireAuth(), middleware.AuthorizePermission(constants.CreateProperty), ph.CreateProject)
	pg := app.Group("/api/properties")
	pg.Get("/personalized", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ViewProperties), pzh.Personalized)
	pg.Get("/", ph.List)
	pg.Get("/:id", ph.Get)
	pg.Get("/:id/events", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ArchiveProperty), ph.Events)
	pg.Post("/", middleware.RequireAuth(), middleware.AuthorizePermission(constants.CreateProperty), ph.Create)
	pg.Patch("/:id", middleware.RequireAuth(), middleware.AuthorizePermission(constants.CreateProperty), ph.Update)
	pg.Post("/:id/archive", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ArchiveProperty), ph.Archive)

	// Preferences
	prh := &prefhandler.Handlers{Service: &prefsvc.Service{Store: preferenceStore}}
	prg := app.Group("/api/preferences", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ManagePreference))
	prg.Get("/", prh.Get)
	prg.Put("/", prh.Put)

	log.Info().
		Str("env", cfg.Env).
		Str("fallback", string(cfg.NoPreferenceFallback)).
		Dur("preference_cache_ttl", cfg.PreferenceCacheTTL).
		Int("candidate_limit", cfg.CandidateLimit).
		Msg("Routes registered")

	return app, db, rdb, nil
}
