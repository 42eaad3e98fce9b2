package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/orderhub/order-management/internal"
	"github.com/orderhub/order-management/internal/audit"
	auditpg "github.com/orderhub/order-management/internal/audit/postgres"
	"github.com/orderhub/order-management/internal/auth"
	authpg "github.com/orderhub/order-management/internal/auth/postgres"
	"github.com/orderhub/order-management/internal/core/events"
	"github.com/orderhub/order-management/internal/govukpay"
	"github.com/orderhub/order-management/internal/order"
	orderpg "github.com/orderhub/order-management/internal/order/postgres"
	"github.com/orderhub/order-management/internal/payment"
	paymentpg "github.com/orderhub/order-management/internal/payment/postgres"
	"github.com/orderhub/order-management/internal/reference"
	referencepg "github.com/orderhub/order-management/internal/reference/postgres"
	"github.com/orderhub/order-management/internal/transport/rest"
	"github.com/orderhub/order-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	registerRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func registerRoutes(deps *Dependencies) {
	lg := deps.Logger

	refRepo := referencepg.NewReferenceRepository(deps.GormDB)
	refService := reference.NewService(refRepo, lg)

	revisionRepo := auditpg.NewRevisionRepository(deps.GormDB)
	auditService := audit.NewService(revisionRepo, audit.OrderSchema(refService), lg)

	orderRepo := orderpg.NewOrderRepository(deps.GormDB)
	orderService := order.NewService(orderRepo, auditService, lg)
	orderHandler := order.NewHandler(orderService, auditService, lg)

	gatewayClient := govukpay.NewClient(govukpay.Config{
		BaseURL:        deps.Config.GOVUKPay.BaseURL,
		APIKey:         deps.Config.GOVUKPay.APIKey,
		RequestTimeout: deps.Config.GOVUKPay.RequestTimeout,
	}, lg)

	eventBus := events.NewEventBus(lg)

	paymentRepo := paymentpg.NewPaymentRepository(deps.GormDB)
	paymentService := payment.NewService(paymentRepo, orderRepo, gatewayClient, eventBus, lg)
	paymentHandler := payment.NewHandler(paymentService, lg)

	userRepo := authpg.NewUserRepository(deps.GormDB)
	tokenGen := auth.NewJWTTokenGenerator(
		deps.Config.Security.AccessTokenSecret,
		deps.Config.Security.RefreshTokenSecret,
	)
	authService := auth.NewService(userRepo, tokenGen)
	authHandler := auth.NewHandler(authService, lg)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, authHandler, orderHandler, paymentHandler, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.Default()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
