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

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	adjustmentService "github.com/cmlabs-hris/hris-payroll-go/internal/service/adjustment"
	advancedSalaryService "github.com/cmlabs-hris/hris-payroll-go/internal/service/advancedsalary"
	attendanceService "github.com/cmlabs-hris/hris-payroll-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-payroll-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
	punchService "github.com/cmlabs-hris/hris-payroll-go/internal/service/punch"
	scheduleService "github.com/cmlabs-hris/hris-payroll-go/internal/service/schedule"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			slog.Error("Error applying schema", "error", err)
			os.Exit(1)
		}
		slog.Info("Database schema applied")
	}

	// Redis only backs idempotency keys; without it the middleware passes through.
	var rdb redis.Cmdable
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Error("Error connecting to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		rdb = client
	}

	// Domain events always reach open SSE streams, and Kafka when brokers are configured.
	hub := sse.NewHub()
	publisher := events.NewHubPublisher(hub)
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewMultiPublisher(
			events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic),
			publisher,
		)
		slog.Info("Publishing domain events", "brokers", strings.Join(cfg.Kafka.Brokers, ","), "topic", cfg.Kafka.Topic)
	}
	defer publisher.Close()

	loc := cfg.Location()
	transactor := postgresql.NewTransactor(db)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	employeeScheduleRepo := postgresql.NewEmployeeScheduleRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	advancedSalaryRepo := postgresql.NewAdvancedSalaryRepository(db)
	adjustmentRepo := postgresql.NewAdjustmentRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	scheduleSvc := scheduleService.NewScheduleService(
		transactor,
		workScheduleRepo,
		employeeScheduleRepo,
		employeeRepo,
		publisher,
		loc,
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		employeeScheduleRepo,
		workScheduleRepo,
		loc,
	)
	advancedSalarySvc := advancedSalaryService.NewAdvancedSalaryService(advancedSalaryRepo, employeeRepo, publisher, loc)
	adjustmentSvc := adjustmentService.NewAdjustmentService(adjustmentRepo, employeeRepo, loc)
	punchSvc := punchService.NewPunchService(transactor, punchRepo, attendanceRepo, employeeRepo, publisher, loc)
	payrollSvc := payrollService.NewPayrollService(
		transactor,
		payrollRepo,
		employeeRepo,
		adjustmentRepo,
		advancedSalaryRepo,
		attendanceSvc,
		publisher,
		loc,
	)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.App.AllowedOrigins,
			RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
			Redis:          rdb,
			IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		},
		JWTService,
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewScheduleHandler(scheduleSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewAdvancedSalaryHandler(advancedSalarySvc),
		appHTTP.NewAdjustmentHandler(adjustmentSvc),
		appHTTP.NewPunchHandler(punchSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewEventStreamHandler(hub),
	)

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler(loc)
		if err := cron.NewScheduleJobs(scheduleSvc).RegisterJobs(scheduler, cfg.Cron.ScheduleSpec); err != nil {
			slog.Error("Error registering cron jobs", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
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
