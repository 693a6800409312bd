package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/authz"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Env            string
	AllowedOrigins []string
	// RateLimit is applied to every /api/v1 request when set.
	RateLimit func(http.Handler) http.Handler
	LogLevel  slog.Level
}

func NewRouter(
	jwtAuth *jwtauth.JWTAuth,
	authorizer *authz.Authorizer,
	payrollHandler PayrollHandler,
	adjustmentHandler SalaryAdjustmentHandler,
	opts RouterOptions,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-cmlabs"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtAuth))
			r.Use(middleware.AuthRequired(jwtAuth))

			allow := func(object, action string) func(http.Handler) http.Handler {
				return middleware.RequirePermission(authorizer, object, action)
			}

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/runs", func(r chi.Router) {
					r.With(allow(authz.ObjectPayrollRun, authz.ActionRead)).Get("/", payrollHandler.ListRuns)
					r.With(allow(authz.ObjectPayrollRun, authz.ActionWrite)).Post("/", payrollHandler.BuildRun)

					r.Route("/{periodKey}", func(r chi.Router) {
						r.With(allow(authz.ObjectPayrollRun, authz.ActionRead)).Get("/", payrollHandler.GetRun)

						r.Group(func(r chi.Router) {
							r.Use(allow(authz.ObjectPayrollRun, authz.ActionWrite))
							r.Post("/process", payrollHandler.ProcessRun)
							r.Post("/pay", payrollHandler.PayRun)
							r.Delete("/", payrollHandler.DeleteRun)
						})
					})
				})

				r.Route("/items/{id}", func(r chi.Router) {
					r.With(allow(authz.ObjectPayrollItem, authz.ActionRead)).Get("/", payrollHandler.GetItem)

					r.Group(func(r chi.Router) {
						r.Use(allow(authz.ObjectPayrollItem, authz.ActionWrite))
						r.Put("/basic-pay", payrollHandler.RecalculateItem)
						r.Patch("/status", payrollHandler.UpdateItemStatus)
						r.Delete("/", payrollHandler.DeleteItem)
					})
				})
			})

			r.Route("/salary-adjustments", func(r chi.Router) {
				r.With(allow(authz.ObjectSalaryAdjustment, authz.ActionSubmit)).Post("/", adjustmentHandler.Submit)
				r.With(allow(authz.ObjectSalaryAdjustment, authz.ActionRead)).Get("/", adjustmentHandler.List)
				r.With(allow(authz.ObjectSalaryAdjustment, authz.ActionRead)).Get("/{id}", adjustmentHandler.Get)
				r.With(allow(authz.ObjectSalaryAdjustment, authz.ActionDecide)).Post("/{id}/decision", adjustmentHandler.Decide)
			})
		})
	})
	return r
}
