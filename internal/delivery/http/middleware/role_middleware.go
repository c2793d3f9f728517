package middleware

import (
	"net/http"

	"hospital-appointment-service/internal/domain/entity"
	"hospital-appointment-service/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff is a convenience middleware for admin or doctor endpoints
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(entity.StaffRoles...)(next)
}

// RequireBookingRole admits every role allowed to book or change appointments
func RequireBookingRole(next http.Handler) http.Handler {
	return RequireRole(entity.BookingRoles...)(next)
}

// RequireFrontDesk admits hospital staff, excluding patients
func RequireFrontDesk(next http.Handler) http.Handler {
	return RequireRole(entity.FrontDeskRoles...)(next)
}
