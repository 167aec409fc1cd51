package middleware

import (
	"net/http"

	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequireRole lets the request through when the caller's role, as put in the
// context by AuthMiddleware, is one of allowedRoleIDs.
func RequireRole(allowedRoleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			for _, allowed := range allowedRoleIDs {
				if roleID == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}

func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDDoctor)(next)
}

func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDPatient)(next)
}

func RequireAdminOrDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin, entity.RoleIDDoctor)(next)
}

// RequireSelfOrAdmin restricts a route to admins and to the user whose id is
// in the named path variable, e.g. a doctor reading their own dashboard.
func RequireSelfOrAdmin(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, _ := GetRoleIDFromContext(r.Context())
			if roleID == entity.RoleIDAdmin {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "User not authenticated")
				return
			}
			target, err := uuid.Parse(mux.Vars(r)[param])
			if err != nil || target != userID {
				response.Forbidden(w, "You can only access your own resources")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
