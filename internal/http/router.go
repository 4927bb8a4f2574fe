package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/shrustiadlak/digital-dear-diary/internal/auth"
	"github.com/shrustiadlak/digital-dear-diary/internal/cache"
	"github.com/shrustiadlak/digital-dear-diary/internal/config"
	"github.com/shrustiadlak/digital-dear-diary/internal/http/handlers"
	"github.com/shrustiadlak/digital-dear-diary/internal/http/middlewares"
	"github.com/shrustiadlak/digital-dear-diary/internal/observability"
	"github.com/shrustiadlak/digital-dear-diary/internal/repo/postgres"
	"github.com/shrustiadlak/digital-dear-diary/internal/sentiment"
	"github.com/shrustiadlak/digital-dear-diary/internal/session"
)

const serviceName = "dear-diary"

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, sessions *session.Store, cfg config.Config) *gin.Engine {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(otelgin.Middleware(serviceName))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	}

	// metrics

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	prom := observability.NewProm(reg)
	r.Use(prom.GinHandleMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// health

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				return err
			}
		}

		if sessions != nil {
			return sessions.Ping(ctx)
		}

		return nil
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	// templates

	r.LoadHTMLGlob(cfg.TemplatesGlob)

	// wire up repositories and collaborators

	usersRepo := postgres.NewUsersRepo(pool, prom)
	entriesRepo := postgres.NewEntriesRepo(pool, prom)

	classifier := sentiment.NewClassifier(nil)
	tokens := auth.NewManager(cfg.SessionSecret, cfg.SessionTTL())
	authMW := middlewares.NewAuthMiddleware(tokens, sessions)

	entriesCache := cache.New(30 * time.Second)

	pages := handlers.NewPagesHandler(usersRepo, usersRepo, entriesRepo, tokens, sessions, cfg)
	entries := handlers.NewEntriesHandlerWithCache(entriesRepo, classifier, entriesCache)

	// page routes

	credLimiter := middlewares.NewRateLimiter(
		cfg.LoginRateLimit,
		time.Duration(cfg.LoginRateWindowSeconds)*time.Second,
	)

	r.GET("/", authMW.Optional(), pages.Index)
	r.GET("/register", pages.ShowRegister)
	r.POST("/register", credLimiter.Middleware(middlewares.KeyByIP), pages.Register)
	r.GET("/login", pages.ShowLogin)
	r.POST("/login", credLimiter.Middleware(middlewares.KeyByIP), pages.Login)
	r.GET("/logout", authMW.RequirePage(), pages.Logout)
	r.GET("/dashboard", authMW.RequirePage(), pages.Dashboard)

	// JSON API routes

	r.POST("/save-entry", authMW.RequireAPI(), middlewares.RequireJSON(), entries.SaveEntry)
	r.GET("/get-entries", authMW.RequireAPI(), entries.GetEntries)
	r.DELETE("/delete-entry/:id", authMW.RequireAPI(), entries.DeleteEntry)

	return r
}
