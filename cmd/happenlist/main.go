// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command happenlist runs the event platform server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/happenlist/happenlist/internal/cache"
	"github.com/happenlist/happenlist/internal/config"
	"github.com/happenlist/happenlist/internal/handler"
	"github.com/happenlist/happenlist/internal/handler/api"
	"github.com/happenlist/happenlist/internal/logging"
	"github.com/happenlist/happenlist/internal/middleware"
	"github.com/happenlist/happenlist/internal/scheduler"
	"github.com/happenlist/happenlist/internal/session"
	"github.com/happenlist/happenlist/internal/store"
	"github.com/happenlist/happenlist/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Happenlist - local event platform\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HL_DATABASE_URL      PostgreSQL connection URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HL_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HL_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HL_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HL_SITE_URL          Public base URL (default: http://localhost:8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HL_ADMIN_EMAILS      Comma-separated superadmin allow-list\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HL_UPLOAD_SECRET     Bearer token for the image rehost endpoint\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HL_REDIS_URL         Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Println(version.String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("connecting to database")
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger so WARN and ERROR records also land in the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewAuditLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		slog.Info("database seeded")
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	cacheConfig := cache.Config{
		Type:            "memory",
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxEntries:      cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}
	if cfg.UseRedisCache() {
		cacheConfig.Type = "redis"
	}
	backend, err := cache.NewCache(cacheConfig)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	cacheManager := cache.NewManager(backend)
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "backend", cacheConfig.Type)

	// Nightly maintenance: stale drafts and expired audit entries
	sched := scheduler.New(db, cfg, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	healthHandler := handler.NewHealthHandler(db)
	seoHandler := handler.NewSEOHandler(store.New(db), cacheManager, cfg)
	apiHandler := api.NewHandler(db, cfg, sessionManager, cacheManager)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
	globalLimiter := middleware.NewGlobalRateLimiter(100, 200)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.Compress(1024))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(globalLimiter.Middleware())
	r.Use(sessionManager.LoadAndSave)

	// Health checks
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// SEO surfaces
	r.Get("/sitemap.xml", seoHandler.Sitemap)
	r.Get("/robots.txt", seoHandler.Robots)

	// Uploaded images, cached for a week
	uploadsHandler := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.Handle("/uploads/*", uploadsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", apiHandler.Status)

		// Public read-only surface
		r.Group(func(r chi.Router) {
			r.Get("/events", apiHandler.ListEvents)
			r.Get("/events/{slug}", apiHandler.GetEvent)
			r.Get("/categories", apiHandler.ListCategories)
			r.Get("/tags", apiHandler.ListTags)
			r.Get("/organizers", apiHandler.ListOrganizers)
			r.Get("/organizers/{id}", apiHandler.GetOrganizer)
			r.Get("/venues", apiHandler.ListVenues)
			r.Get("/venues/search", apiHandler.SearchVenues)
			r.Get("/venues/popular", apiHandler.ListPopularVenues)
			r.Get("/venues/{id}", apiHandler.GetVenue)
		})

		// Account endpoints
		r.Group(func(r chi.Router) {
			r.Use(csrfMiddleware)
			r.With(loginProtection.Middleware()).Post("/auth/register", apiHandler.Register)
			r.With(loginProtection.Middleware()).Post("/auth/login", apiHandler.Login)
			r.Post("/auth/logout", apiHandler.Logout)
			r.With(middleware.LoadUser(sessionManager, db, cfg)).Get("/auth/me", apiHandler.Me)
		})

		// Authenticated user surface: drafts, submission, own events, uploads
		r.Group(func(r chi.Router) {
			r.Use(csrfMiddleware)
			r.Use(middleware.Auth(sessionManager))
			r.Use(middleware.LoadUser(sessionManager, db, cfg))

			r.Get("/my/events", apiHandler.ListMyEvents)

			r.Post("/drafts", apiHandler.CreateDraft)
			r.Get("/drafts", apiHandler.ListDrafts)
			r.Get("/drafts/{id}", apiHandler.GetDraft)
			r.Put("/drafts/{id}", apiHandler.UpdateDraft)
			r.Delete("/drafts/{id}", apiHandler.DeleteDraft)
			r.With(middleware.SubmissionRateLimit(0.2, 3)).
				Post("/drafts/{id}/submit", apiHandler.SubmitDraft)

			r.Post("/images", apiHandler.UploadImage)
			r.Get("/images/{uuid}", apiHandler.GetImage)
		})

		// Image rehosting for the scraper pipeline, bearer-token-guarded.
		// Cross-site protection comes from the token, not the session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.SkipCSRF("/api/v1/images/rehost", "/api/v1/images/upload"))
			r.Use(csrfMiddleware)
			r.Use(middleware.UploadAuth(cfg.UploadSecret))
			r.Post("/images/rehost", apiHandler.RehostImage)
			r.Post("/images/upload", apiHandler.RehostImage)
		})

		// Moderation surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(csrfMiddleware)
			r.Use(middleware.Auth(sessionManager))
			r.Use(middleware.LoadUser(sessionManager, db, cfg))
			r.Use(middleware.RequireAdmin())

			r.Get("/events", apiHandler.ListModerationQueue)
			r.Get("/events/{id}", apiHandler.GetEventForReview)
			r.Post("/events/{id}/approve", apiHandler.ApproveEvent)
			r.Post("/events/{id}/reject", apiHandler.RejectEvent)
			r.Post("/events/{id}/request-changes", apiHandler.RequestChanges)
			r.Get("/audit", apiHandler.ListAuditLog)
			r.Post("/organizers", apiHandler.CreateOrganizer)

			// Superadmin-only overrides
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSuperadmin())
				r.Post("/events/{id}/cancel", apiHandler.CancelEvent)
				r.Post("/events/{id}/status", apiHandler.ForceEventStatus)
				r.Put("/events/{id}", apiHandler.EditEvent)
				r.Delete("/events/{id}", apiHandler.SoftDeleteEvent)
				r.Post("/events/{id}/restore", apiHandler.RestoreEvent)
				r.Delete("/events/{id}/purge", apiHandler.PurgeEvent)
				r.Delete("/images/{uuid}", apiHandler.DeleteImage)
			})
		})
	})
	slog.Info("REST API v1 mounted at /api/v1")

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // allow for large uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
