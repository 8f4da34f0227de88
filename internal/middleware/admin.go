package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	apperrors "github.com/pushp314/bloodbridge-backend/pkg/errors"
)

// RequireRole lets through users whose role is one of roles.
// Must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.Role(c.GetString("role"))
		if role == "" {
			abortWith(c, apperrors.ErrUnauthorized)
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		abortWith(c, apperrors.ErrForbidden)
	}
}

// AdminOnly restricts access to admins.
func AdminOnly() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// VerifiedHospitalOrAdmin gates donation confirmation and camp management.
func VerifiedHospitalOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.Role(c.GetString("role"))
		switch {
		case role == models.RoleAdmin:
			c.Next()
		case role == models.RoleHospital && c.GetBool("isVerified"):
			c.Next()
		case role == models.RoleHospital:
			abortWith(c, apperrors.ErrUnverified)
		case role == "":
			abortWith(c, apperrors.ErrUnauthorized)
		default:
			abortWith(c, apperrors.Forbidden("Hospital or admin access required"))
		}
	}
}
