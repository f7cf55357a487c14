package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/RinkiBai/portfolio-backend/config"
	httpapi "github.com/RinkiBai/portfolio-backend/internal/api/http"
	"github.com/RinkiBai/portfolio-backend/internal/auth"
	"github.com/RinkiBai/portfolio-backend/internal/contact/guard"
	contacthttp "github.com/RinkiBai/portfolio-backend/internal/contact/http"
	"github.com/RinkiBai/portfolio-backend/internal/contact/notify"
	"github.com/RinkiBai/portfolio-backend/internal/contact/repository"
	"github.com/RinkiBai/portfolio-backend/internal/contact/service"
	"github.com/RinkiBai/portfolio-backend/internal/contact/validate"
	"github.com/RinkiBai/portfolio-backend/internal/projects"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepSchedule = "@every 1m"

// App owns the wired HTTP router and every resource it depends on.
type App struct {
	Router *gin.Engine

	logger     *zap.Logger
	dispatcher *notify.Dispatcher
	sweeper    *cron.Cron
	closers    []func()
}

type AppOptions struct {
	AutoMigrate bool
}

// NewApp connects backing services and wires the contact pipeline. On error
// everything opened so far is released.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, opt AppOptions) (_ *App, err error) {
	app := &App{logger: logger}
	defer func() {
		if err != nil {
			if app.dispatcher != nil {
				_ = app.dispatcher.Close(context.Background())
			}
			app.release()
		}
	}()

	dbOpt := DBOptions{URL: cfg.Database.URL, MaxConns: cfg.Database.MaxConns}

	var (
		store  service.Store
		pinger httpapi.Pinger
	)
	if cfg.Database.URL != "" {
		db, err := OpenSQL(ctx, dbOpt)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = db.Close() })

		repo := repository.NewSubmissionRepository(db)
		if opt.AutoMigrate {
			if err := repo.Migrate(ctx); err != nil {
				return nil, err
			}
		}
		store, pinger = repo, repo
	} else {
		logger.Warn("DATABASE_URL not set, submissions are kept in memory")
		store = repository.NewMemoryRepository()
	}

	limiter, err := app.limiter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var verifier guard.Verifier = guard.NoopVerifier{}
	if cfg.Captcha.Enabled() {
		verifier = guard.NewRecaptchaVerifier(cfg.Captcha.SecretKey, cfg.Captcha.VerifyURL, cfg.Captcha.MinScore, cfg.Captcha.Action)
	} else {
		logger.Info("captcha verification disabled")
	}

	sender, err := NewSender(ctx, cfg.Mail, logger)
	if err != nil {
		return nil, err
	}
	app.dispatcher = notify.NewDispatcher(sender, notify.Envelope{
		FromName: cfg.Mail.FromName,
		From:     cfg.Mail.User,
		To:       cfg.Mail.Receiver,
	}, notify.Options{
		Workers:       cfg.Mail.Workers,
		QueueSize:     cfg.Mail.QueueSize,
		MaxAttempts:   cfg.Mail.MaxAttempts,
		RetryDelay:    cfg.Mail.RetryDelay,
		RatePerMinute: cfg.Mail.RatePerMinute,
	}, logger)
	app.dispatcher.Start()

	operatorAuth, err := OperatorAuth(ctx, cfg.Admin, logger)
	if err != nil {
		return nil, err
	}

	catalog, err := app.catalog(ctx, cfg, dbOpt)
	if err != nil {
		return nil, err
	}

	patterns, err := cfg.CORS.CompiledPatterns()
	if err != nil {
		return nil, err
	}

	svc := service.NewContactService(validate.New(), verifier, store, app.dispatcher, logger)

	app.Router, err = BuildRouter(RouterDeps{
		ServiceName:    cfg.App.Name,
		Version:        cfg.App.Version,
		Logger:         logger,
		DB:             pinger,
		TrustedProxies: cfg.Server.TrustedProxies,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		OriginPatterns: patterns,
		Contact:        contacthttp.NewHandler(svc, logger, !cfg.App.IsProduction()),
		Limiter:        limiter,
		OperatorAuth:   operatorAuth,
		Catalog:        catalog,
	})
	if err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) limiter(ctx context.Context, cfg *config.Config) (guard.Limiter, error) {
	if cfg.Redis.URL != "" {
		client, err := OpenRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return guard.NewRedisLimiter(client, cfg.RateLimit.Max, cfg.RateLimit.Window), nil
	}

	mem := guard.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
	sweeper, err := mem.StartSweeper(sweepSchedule, a.logger)
	if err != nil {
		return nil, err
	}
	a.sweeper = sweeper
	return mem, nil
}

func (a *App) catalog(ctx context.Context, cfg *config.Config, dbOpt DBOptions) (projects.Catalog, error) {
	if cfg.Projects.Source != "db" {
		return projects.DefaultCatalog(), nil
	}
	pool, err := OpenPool(ctx, dbOpt)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)
	return projects.NewPGCatalog(pool), nil
}

// OperatorAuth builds the middleware guarding listing and deletion.
func OperatorAuth(ctx context.Context, cfg config.AdminConfig, logger *zap.Logger) (gin.HandlerFunc, error) {
	switch cfg.AuthMode {
	case config.AdminAuthAPIKey:
		return auth.APIKeyMiddleware(cfg.APIKey), nil
	case config.AdminAuthFirebase:
		client, err := auth.InitializeFirebase(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredsPath)
		if err != nil {
			return nil, err
		}
		return auth.FirebaseOperatorMiddleware(client, cfg.Emails), nil
	case config.AdminAuthNone:
		logger.Warn("operator endpoints are not protected (ADMIN_AUTH_MODE=none)")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown admin auth mode %q", cfg.AuthMode)
	}
}

// Shutdown drains queued notifications, then releases connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.dispatcher != nil {
		if err := a.dispatcher.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain notifications: %w", err))
		}
	}
	a.release()
	return errors.Join(errs...)
}

func (a *App) release() {
	if a.sweeper != nil {
		<-a.sweeper.Stop().Done()
		a.sweeper = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
