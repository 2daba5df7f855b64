package http

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
	Redis          redis.Cmdable
	IdempotencyTTL time.Duration
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	employeeHandler EmployeeHandler,
	scheduleHandler ScheduleHandler,
	attendanceHandler AttendanceHandler,
	advancedSalaryHandler AdvancedSalaryHandler,
	adjustmentHandler AdjustmentHandler,
	punchHandler PunchHandler,
	payrollHandler PayrollHandler,
	eventStreamHandler EventStreamHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"Link", middleware.ReplayedHeader},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	idempotent := middleware.Idempotency(opts.Redis, opts.IdempotencyTTL)

	r.Route("/api/v1", func(r chi.Router) {

		// EventSource cannot send headers, so the token may come from ?jwt=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireManager)
			r.Get("/events/stream", eventStreamHandler.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			if opts.RateLimiter != nil {
				r.Use(opts.RateLimiter.Limit)
			}

			r.Route("/employee", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeView))
					r.Get("/get", employeeHandler.ListEmployees)
					r.Post("/get", employeeHandler.SearchEmployees)
				})
				// Employees may read their own record
				r.Get("/{id}", employeeHandler.GetEmployee)
			})

			r.Route("/workSchedule", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionScheduleView)).Get("/", scheduleHandler.ListWorkSchedules)
				r.With(middleware.RequirePermission(user.PermissionScheduleView)).Get("/{id}", scheduleHandler.GetWorkSchedule)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
					r.Post("/", scheduleHandler.CreateWorkSchedule)
					r.Put("/{id}", scheduleHandler.UpdateWorkSchedule)
					r.Delete("/{id}", scheduleHandler.DeleteWorkSchedule)
				})
			})

			r.Route("/employeeSchedule", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleView))
					r.Get("/{employeeId}", scheduleHandler.GetEmployeeSchedule)
					r.Post("/fetch", scheduleHandler.FetchEmployeeSchedules)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
					r.With(idempotent).Post("/generate", scheduleHandler.GenerateEmployeeSchedules)
					r.With(idempotent).Post("/batch", scheduleHandler.BatchUpdateSchedules)
					r.Put("/{employeeId}/day", scheduleHandler.UpdateScheduleDay)
					r.Delete("/{employeeId}", scheduleHandler.DeleteEmployeeSchedule)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionScheduleView))
				r.Get("/", attendanceHandler.List)
				r.Get("/summary/{employeeId}", attendanceHandler.GetSummary)
			})

			r.Route("/advanced-salary", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAdvanceRequest))
					r.Get("/", advancedSalaryHandler.List)
					r.Get("/{id}", advancedSalaryHandler.Get)
					r.Post("/", advancedSalaryHandler.Create)
					r.Put("/{id}", advancedSalaryHandler.Update)
					r.Delete("/{id}", advancedSalaryHandler.Delete)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAdvanceReview))
					r.Patch("/{id}/approve", advancedSalaryHandler.Approve)
					r.Patch("/{id}/reject", advancedSalaryHandler.Reject)
				})
			})

			r.Route("/adjustments/{kind}", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAdjustmentManage))
					r.Get("/", adjustmentHandler.List)
					r.Post("/", adjustmentHandler.Create)
					r.Get("/{id}", adjustmentHandler.Get)
					r.Put("/{id}", adjustmentHandler.Update)
					r.Delete("/{id}", adjustmentHandler.Delete)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAdjustmentReview))
					r.Patch("/{id}/approve", adjustmentHandler.Approve)
					r.Patch("/{id}/reject", adjustmentHandler.Reject)
				})
			})

			r.Route("/punch", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPunchRequest))
					r.Get("/", punchHandler.List)
					r.Get("/{id}", punchHandler.Get)
					r.Post("/", punchHandler.Create)
					r.Put("/{id}", punchHandler.Update)
					r.Delete("/{id}", punchHandler.Delete)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPunchReview))
					r.Patch("/{id}/approve", punchHandler.Approve)
					r.Patch("/{id}/reject", punchHandler.Reject)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/settings", payrollHandler.GetSettings)
					r.Get("/summary", payrollHandler.GetPayrollSummary)
					r.Get("/deltas", payrollHandler.GetDeltas)
					r.Post("/{type}/calculate", payrollHandler.Calculate)
					r.Get("/{type}", payrollHandler.ListPayrollRecords)
					r.Get("/{type}/{id}", payrollHandler.GetPayrollRecord)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Put("/settings", payrollHandler.UpdateSettings)
					r.With(idempotent).Post("/{type}/generate", payrollHandler.GeneratePayroll)
					r.Put("/{type}/{id}", payrollHandler.UpdatePayrollRecord)
					r.Delete("/{type}/{id}", payrollHandler.DeletePayrollRecord)
				})

				r.With(middleware.RequirePermission(user.PermissionPayrollReview)).
					Patch("/{type}/{id}/status", payrollHandler.UpdateStatus)
			})
		})
	})
	return r
}
