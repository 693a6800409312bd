package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/authz"
)

// RequirePermission lets the request through only if the caller's role may
// perform action on object.
func RequirePermission(authorizer *authz.Authorizer, object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s:%s'", object, action))
				return
			}

			allowed, err := authorizer.Authorize(caller.Role, object, action)
			if err != nil {
				slog.Error("authorization check failed", "role", caller.Role, "object", object, "action", action, "error", err)
				response.InternalServerError(w, "INTERNAL_SERVER_ERROR", "Authorization check failed")
				return
			}
			if !allowed {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s:%s', but user role is '%s'", object, action, caller.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
