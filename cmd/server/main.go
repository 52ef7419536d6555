package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/grantfox/tenantcore/modules/sponsors"
	"github.com/grantfox/tenantcore/pkg/audit"
	"github.com/grantfox/tenantcore/pkg/config"
	"github.com/grantfox/tenantcore/pkg/httpserver"
	"github.com/grantfox/tenantcore/pkg/logger"
	"github.com/grantfox/tenantcore/pkg/membership"
	"github.com/grantfox/tenantcore/pkg/operator"
	"github.com/grantfox/tenantcore/pkg/pg"
	"github.com/grantfox/tenantcore/pkg/redis"
	"github.com/grantfox/tenantcore/pkg/requestid"
	"github.com/grantfox/tenantcore/pkg/rls"
	"github.com/grantfox/tenantcore/pkg/tenancy"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"grantfox"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg   appConfig
		pgCfg    pg.Config
		redisCfg redis.Config
		httpCfg  httpserver.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&httpCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Environment, appCfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), tenancy.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	directory := membership.NewCachedDirectory(
		membership.NewStore(pool),
		membership.WithCache(membership.NewRedisCache(redisClient, "membership")),
	)

	auditor := audit.NewLogger(audit.NewPgStorage(pool))

	gate := operator.NewGate(operator.NewStore(pool),
		operator.WithAuditLogger(auditor),
		operator.WithLogger(log),
	)

	resolver := tenancy.NewResolver(directory, gate,
		tenancy.WithResolverLogger(log),
	)

	binder := rls.NewBinder(pool, rls.WithBinderLogger(log))
	sponsorSvc := sponsors.NewService(sponsors.NewStore(binder), sponsors.WithLogger(log))

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(chimw.Recoverer)
	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	))

	r.Group(func(r chi.Router) {
		r.Use(tenancy.Middleware(resolver,
			tenancy.WithPrincipal(tenancy.PrincipalFromHeader("X-User-ID")),
			tenancy.WithSkipPaths([]string{"/healthz", "/readyz"}),
		))
		r.Mount("/sponsors", sponsorSvc.Handle())
	})

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithServerLogger(log))
	return srv.Run(ctx, r)
}
