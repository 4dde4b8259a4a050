package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	authhandler "github.com/clubtrack-dev/clubtrack/domains/auth/be/handler"
	authrepo "github.com/clubtrack-dev/clubtrack/domains/auth/be/repo"
	authservice "github.com/clubtrack-dev/clubtrack/domains/auth/be/service"
	clubshandler "github.com/clubtrack-dev/clubtrack/domains/clubs/be/handler"
	clubsrepo "github.com/clubtrack-dev/clubtrack/domains/clubs/be/repo"
	clubsservice "github.com/clubtrack-dev/clubtrack/domains/clubs/be/service"
	eventshandler "github.com/clubtrack-dev/clubtrack/domains/events/be/handler"
	eventsrepo "github.com/clubtrack-dev/clubtrack/domains/events/be/repo"
	eventsservice "github.com/clubtrack-dev/clubtrack/domains/events/be/service"
	reportshandler "github.com/clubtrack-dev/clubtrack/domains/reports/be/handler"
	reportsrepo "github.com/clubtrack-dev/clubtrack/domains/reports/be/repo"
	reportsservice "github.com/clubtrack-dev/clubtrack/domains/reports/be/service"
	platformauth "github.com/clubtrack-dev/clubtrack/platform/go/auth"
	platformlogging "github.com/clubtrack-dev/clubtrack/platform/go/logging"
	platformmiddleware "github.com/clubtrack-dev/clubtrack/platform/go/middleware"
	"github.com/clubtrack-dev/clubtrack/platform/go/persistence"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	JWTSecret       string        `env:"JWT_SECRET,required"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
	BootstrapSchema bool          `env:"BOOTSTRAP_SCHEMA" envDefault:"false"`
}

func main() {
	ctx := context.Background()

	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "api-server",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: cfg.DatabaseURL})
	if err != nil {
		logger.Fatal("init postgres pool", zap.Error(err))
	}
	defer persistence.ClosePool(pool)

	if cfg.BootstrapSchema {
		if err := persistence.Bootstrap(ctx, pool); err != nil {
			logger.Fatal("bootstrap schema", zap.Error(err))
		}
		logger.Info("schema bootstrap applied")
	}

	issuer, err := platformauth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("init token issuer", zap.Error(err))
	}

	personStore, err := persistence.NewPersonStore(pool)
	if err != nil {
		logger.Fatal("init person store", zap.Error(err))
	}
	catalogStore, err := persistence.NewCatalogStore(pool)
	if err != nil {
		logger.Fatal("init catalog store", zap.Error(err))
	}
	rosterStore, err := persistence.NewRosterStore(pool)
	if err != nil {
		logger.Fatal("init roster store", zap.Error(err))
	}
	eventStore, err := persistence.NewEventStore(pool)
	if err != nil {
		logger.Fatal("init event store", zap.Error(err))
	}
	reportStore, err := persistence.NewReportStore(pool)
	if err != nil {
		logger.Fatal("init report store", zap.Error(err))
	}

	authHTTPHandler := authhandler.New(
		authservice.New(authrepo.NewPostgresRepository(personStore), issuer),
		logger,
	)
	clubsHTTPHandler := clubshandler.New(
		clubsservice.New(clubsrepo.NewPostgresRepository(catalogStore, rosterStore)),
		logger,
	)
	eventsHTTPHandler := eventshandler.New(
		eventsservice.New(eventsrepo.NewPostgresRepository(eventStore)),
		logger,
	)
	reportsHTTPHandler := reportshandler.New(
		reportsservice.New(reportsrepo.NewPostgresRepository(reportStore)),
		logger,
	)

	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		platformmiddleware.DefaultCORS(),
	)

	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	apiRouter := chi.NewRouter()

	// Login and the range-attendance report are served without a credential.
	apiRouter.Group(func(r chi.Router) {
		authHTTPHandler.Register(r)
		reportsHTTPHandler.RegisterPublic(r)
	})

	apiRouter.Group(func(r chi.Router) {
		r.Use(platformauth.RequireBearer(issuer.Verify))
		clubsHTTPHandler.Register(r)
		eventsHTTPHandler.Register(r)
		reportsHTTPHandler.Register(r)
	})

	rootRouter.Mount("/api/v1", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
