package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/auth"
	"github.com/GiftHanong/taxihub/config"
	"github.com/GiftHanong/taxihub/middleware"
	"github.com/GiftHanong/taxihub/repositories"
	"github.com/GiftHanong/taxihub/repositories/postgres"
	"github.com/GiftHanong/taxihub/services"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Auth
	PasswordHasher *auth.PasswordHasher
	TokenService   *auth.TokenService
	AuthMiddleware *middleware.AuthMiddleware

	// Services
	Sessions  *services.SessionService
	Marshals  *services.MarshalService
	Ranks     *services.RankService
	Taxis     *services.TaxiService
	Loads     *services.LoadService
	Payments  *services.PaymentService
	Meetings  *services.MeetingService
	Directory *services.DirectoryService
	Reports   *services.ReportService
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initAuth(cfg)
	deps.initServices(cfg)

	if err := deps.seedAdmin(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to seed initial admin: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// seedAdmin provisions the first administrator from ADMIN_EMAIL and
// ADMIN_PASSWORD so a cold deployment can work the approval queue.
func (d *Dependencies) seedAdmin(ctx context.Context, cfg *config.Config) error {
	if cfg.Auth.BootstrapAdminEmail == "" || cfg.Auth.BootstrapAdminPassword == "" {
		return nil
	}
	return d.Sessions.BootstrapAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword)
}

// initDatabase initializes the PostgreSQL connection and schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := d.DB.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

func (d *Dependencies) initRepositories() {
	d.Repos = d.RepoFactory.NewRepositories()
	d.TxManager = d.RepoFactory.GetTransactionManager()
	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	d.PasswordHasher = auth.NewPasswordHasher(auth.PasswordHasherOptions{
		Iterations: cfg.Auth.PasswordIterations,
	})
	d.TokenService = auth.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)
}

func (d *Dependencies) initServices(cfg *config.Config) {
	d.Sessions = services.NewSessionService(
		d.Repos.Credentials, d.Repos.Marshals, d.TxManager,
		d.PasswordHasher, d.TokenService, d.Logger)
	d.Marshals = services.NewMarshalService(
		d.Repos.Marshals, d.Repos.Credentials, d.Repos.Ranks,
		d.Repos.Activity, d.TxManager, d.Logger)
	d.Ranks = services.NewRankService(
		d.Repos.Ranks, d.Repos.Marshals, d.Repos.Taxis,
		d.Repos.Activity, d.TxManager, d.Logger)
	d.Taxis = services.NewTaxiService(
		d.Repos.Taxis, d.Repos.Ranks, d.Repos.Activity, d.TxManager, d.Logger)
	d.Loads = services.NewLoadService(
		d.Repos.Loads, d.Repos.Taxis, d.TxManager, d.Logger)
	d.Payments = services.NewPaymentService(
		d.Repos.Payments, d.Repos.Taxis, d.TxManager, d.Logger)
	d.Meetings = services.NewMeetingService(
		d.Repos.Meetings, d.Repos.Ranks, d.Logger)
	d.Directory = services.NewDirectoryService(
		d.Repos.Ranks, cfg.Directory.NearbyRadiusKm, d.Logger)
	d.Reports = services.NewReportService(
		d.Repos.Ranks, d.Repos.Taxis, d.Repos.Loads,
		d.Repos.Payments, d.Repos.Activity, d.Logger)

	d.AuthMiddleware = middleware.NewAuthMiddleware(d.TokenService, d.Sessions, d.Logger)

	d.Logger.Info("services initialized")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
