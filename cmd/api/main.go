package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/authz"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	adjustmentService "github.com/cmlabs-hris/payroll-backend-go/internal/service/adjustment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/deduction"
	payrollService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
)

type repositories struct {
	tx          database.Transactor
	employees   employee.EmployeeRepository
	payroll     payroll.PayrollRepository
	adjustments adjustment.SalaryAdjustmentRepository
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logLevel := parseLogLevel(cfg.App.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Error opening storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	if cfg.App.SeedDemoData || cfg.Storage.Driver == config.StorageDriverMemory {
		if _, err := fixtures.SeedDemoRoster(ctx, repos.employees); err != nil {
			slog.Error("Error seeding demo roster", "error", err)
			os.Exit(1)
		}
	}

	table := deduction.DefaultTable()
	if cfg.Statutory.TablePath != "" {
		table, err = deduction.LoadTable(cfg.Statutory.TablePath)
		if err != nil {
			slog.Error("Error loading statutory table", "path", cfg.Statutory.TablePath, "error", err)
			os.Exit(1)
		}
	}
	calculator := deduction.NewCalculator(table)

	authorizer, err := authz.NewDefaultAuthorizer()
	if err != nil {
		slog.Error("Error building authorizer", "error", err)
		os.Exit(1)
	}

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		slog.Error("Error creating JWT service", "error", err)
		os.Exit(1)
	}

	var rateLimit func(http.Handler) http.Handler
	if cfg.RateLimit.Rate != "" {
		rateLimit, err = middleware.RateLimit(cfg.RateLimit.Rate)
		if err != nil {
			slog.Error("Error parsing RATE_LIMIT", "rate", cfg.RateLimit.Rate, "error", err)
			os.Exit(1)
		}
	}

	payrollSvc := payrollService.NewPayrollService(repos.tx, repos.payroll, repos.employees, calculator)
	adjustmentSvc := adjustmentService.NewSalaryAdjustmentService(repos.tx, repos.adjustments, repos.employees)

	router := appHTTP.NewRouter(
		jwtService.JWTAuth(),
		authorizer,
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewSalaryAdjustmentHandler(adjustmentSvc),
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.CORSOrigins,
			RateLimit:      rateLimit,
			LogLevel:       logLevel,
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "storage", cfg.Storage.Driver, "table_version", table.Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		return &repositories{
			tx:          store,
			employees:   store.Employees(),
			payroll:     store.Payroll(),
			adjustments: store.Adjustments(),
			close:       func() {},
		}, nil

	case config.StorageDriverPostgres:
		dsn := cfg.DatabaseURL()
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(dsn); err != nil {
				return nil, fmt.Errorf("failed to migrate: %w", err)
			}
		}
		db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &repositories{
			tx:          postgresql.NewTransactor(db),
			employees:   postgresql.NewEmployeeRepository(db),
			payroll:     postgresql.NewPayrollRepository(db),
			adjustments: postgresql.NewSalaryAdjustmentRepository(db),
			close:       db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
