package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // zone database for minimal container images

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/handlers"
	authmw "github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/middleware"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/notify"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/links"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/mailer"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/redisstore"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/repo/postgres"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/service"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/config"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/database"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/events"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
	mw "github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 30 * time.Second
	tokenSweepEvery = time.Hour
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, config.Load())
	},
}

// connectBus returns a NATS bus, or a no-op bus when NATS is disabled or
// unreachable so that check-ins keep working without notifications.
func connectBus(cfg *config.Config, name string) events.EventBus {
	if !cfg.NATS.Enabled {
		logger.Warn("NATS disabled, events will not be published")
		return events.NoopBus{}
	}
	bus, err := events.NewNATSEventBus(cfg.NATS.URL, name)
	if err != nil {
		logger.Warn("NATS unavailable, events will not be published", "error", err, "url", cfg.NATS.URL)
		return events.NoopBus{}
	}
	return bus
}

// applyTimeZone makes name the process local zone, which decides what "today"
// and report days mean.
func applyTimeZone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("load time zone %q: %w", name, err)
	}
	time.Local = loc
	return nil
}

// startInlineNotifier runs the arrival notifier inside the API process. A
// disabled bus is not fatal: the API keeps serving without arrival emails.
func startInlineNotifier(bus events.Subscriber, mail mailer.Service, queue string) error {
	err := notify.NewArrivalNotifier(mail).Start(bus, queue)
	if errors.Is(err, events.ErrBusDisabled) {
		logger.Warn("Arrival notifier not started, event bus disabled", "queue", queue)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("Arrival notifier running in-process", "queue", queue)
	return nil
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if err := applyTimeZone(cfg.App.TimeZone); err != nil {
		return err
	}
	if cfg.Database.MigrateOnStart {
		if err := database.MigrateUp(cfg.Database.URL); err != nil {
			return err
		}
		logger.Info("Database migrations applied")
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return err
	}
	defer pool.Close()

	opts := handlers.RouterOptions{DB: pool}
	if cfg.Redis.Enabled {
		store, err := redisstore.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiting and idempotency disabled", "error", err)
		} else {
			defer store.Close()
			opts.Limiter = store
			opts.Idempotency = store
		}
	}

	bus := connectBus(cfg, "visitor-api")
	defer bus.Close()

	mail, err := mailer.New(cfg.Email, cfg.App.Name)
	if err != nil {
		return err
	}
	linkBuilder := links.NewBuilder(cfg.App.BaseURL, cfg.App.APIBaseURL)

	// Repositories
	usersRepo := postgres.NewUsersRepo(pool)
	companyRepo := postgres.NewCompanyRepo(pool)
	verifyRepo := postgres.NewVerifyRepo(pool)
	visitRepo := postgres.NewVisitRepo(pool)
	preRegRepo := postgres.NewPreRegistrationRepo(pool)
	reportRepo := postgres.NewReportRepo(pool)

	// Services
	authService := service.NewAuthService(usersRepo, companyRepo, verifyRepo, mail, linkBuilder, cfg)
	userService := service.NewUserService(usersRepo, companyRepo)
	visitService := service.NewVisitService(visitRepo, usersRepo, preRegRepo, bus)
	preRegService := service.NewPreRegistrationService(preRegRepo, usersRepo, mail, linkBuilder, bus)
	reportService := service.NewReportService(reportRepo, preRegRepo)

	h := handlers.New(authService, userService, visitService, preRegService, reportService, cfg)

	if cfg.NATS.NotifyInline {
		if err := startInlineNotifier(bus, mail, cfg.NATS.NotifyQueue); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      h.Router(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting visitor API", "port", cfg.Server.Port, "dev_mode", cfg.App.DevMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sweepVerificationTokens(gctx, verifyRepo)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down visitor API...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Visitor API shutdown error", "error", err)
			return err
		}
		return nil
	})

	return g.Wait()
}

// sweepVerificationTokens drops expired email verification tokens until ctx ends.
func sweepVerificationTokens(ctx context.Context, repo postgres.VerifyRepo) {
	ticker := time.NewTicker(tokenSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpiredTokens(ctx)
			if err != nil {
				logger.Warn("Expired token sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug("Expired verification tokens removed", "count", n)
			}
		}
	}
}
