package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hellosrv/docs"
	"hellosrv/internal/config"
	"hellosrv/internal/database"
	"hellosrv/internal/database/migration"
	handlers "hellosrv/internal/http/handler"
	"hellosrv/internal/http/middleware"
	"hellosrv/internal/logging"
	"hellosrv/internal/otel"
	"hellosrv/internal/repository"
	"hellosrv/internal/repository/memory"
	"hellosrv/internal/repository/postgres"
	"hellosrv/internal/service"
	"hellosrv/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("host", "127.0.0.1", "Host to bind to")
	flags.String("port", "8000", "Port to listen on")
	flags.Int("delay-ms", 2000, "Greeting delay in milliseconds")
	flags.String("config", "", "Optional config file (yaml, json or toml)")

	rootCmd.RunE = runServe
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	loc := cfg.Location()
	log := logging.New(os.Stdout, loc, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	journal, db, err := openJournal(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var objStore storage.Storage
	if cfg.MinIO.Enabled() {
		objStore, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
	}

	greeting := service.NewGreetingService(service.GreetingOptions{
		Body:        cfg.Greeting.Body,
		ContentType: cfg.Greeting.ContentType,
		Delay:       cfg.Greeting.Delay(),
		MaxPending:  cfg.Greeting.MaxPending,
		ObjectKey:   cfg.Greeting.ObjectKey,
	}, objStore, journal, log)
	if err := greeting.LoadBody(ctx); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	if err := middleware.RegisterPendingGauge(reg, greeting.Pending); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
		IdleTimeout:           60 * time.Second,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(middleware.Recover(log))
	app.Use(otelfiber.Middleware())
	// pending greetings are released once the shutdown grace period runs out
	drainCtx, drain := context.WithCancel(context.Background())
	defer drain()
	app.Use(middleware.Drain(drainCtx))
	app.Use(promMiddleware.Handler())

	routes := handlers.Routes{
		GreetingPath: cfg.Greeting.Path,
		Greeting:     greeting,
		Journal:      service.NewJournalService(journal),
		Gatherer:     reg,
	}
	if db != nil {
		routes.DB = db
	}

	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})
	handlers.RegisterRoutes(app, routes)

	app.Hooks().OnListen(func(ld fiber.ListenData) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Server running at http://%s:%s/\n", ld.Host, ld.Port)
		log.WithFields(logrus.Fields{
			"addr":          cfg.Addr(),
			"greeting_path": cfg.Greeting.Path,
			"delay_ms":      cfg.Greeting.DelayMs,
			"max_pending":   cfg.Greeting.MaxPending,
			"journal":       journalKind(db),
			"object_store":  cfg.MinIO.Enabled(),
		}).Info("server_started")
		return nil
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.WithField("pending", greeting.Pending()).Info("shutting down")

	stopServer(app, cfg.ShutdownTimeout(), drain, greeting.Pending, shutdownTracing, log)
	return nil
}

// openJournal returns the PostgreSQL journal when a database is configured
// and an in-memory ring otherwise. db is nil in the latter case.
func openJournal(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (repository.ResponseRepository, *sql.DB, error) {
	if !cfg.Database.Enabled() {
		return memory.NewResponseMemory(cfg.JournalMemoryCapacity), nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return postgres.NewResponsePostgres(db), db, nil
}

func journalKind(db *sql.DB) string {
	if db != nil {
		return "postgres"
	}
	return "memory"
}
