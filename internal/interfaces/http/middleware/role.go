package middleware

import (
	"net/http"

	"github.com/customs/backend/internal/domain/identity"
	"github.com/customs/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRoles []identity.Role)
}

// RequireRoles creates middleware that requires the authenticated user to
// hold one of the listed roles
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return RequireRolesWithConfig(RoleConfig{}, roles...)
}

// RequireRolesWithConfig creates role middleware with custom config
func RequireRolesWithConfig(cfg RoleConfig, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			handleRoleDenied(c, cfg, roles, "No authentication claims found")
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				if cfg.Logger != nil {
					cfg.Logger.Debug("Role check passed",
						zap.String("user_id", actor.ID.String()),
						zap.String("role", actor.Role.String()),
					)
				}
				c.Next()
				return
			}
		}

		handleRoleDenied(c, cfg, roles, "User role is not permitted")
	}
}

// RequireAdministrative creates middleware restricted to administrative roles
func RequireAdministrative() gin.HandlerFunc {
	return RequireRoles(identity.RoleSuperAdmin, identity.RoleAdmin)
}

// RequireOfficer creates middleware restricted to field-officer roles
func RequireOfficer() gin.HandlerFunc {
	return RequireRoles(identity.RoleOperationalOfficer, identity.RoleCancellationOfficer)
}

// handleRoleDenied rejects the request with a 403
func handleRoleDenied(c *gin.Context, cfg RoleConfig, roles []identity.Role, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, roles)
		return
	}

	if cfg.Logger != nil {
		required := make([]string, 0, len(roles))
		for _, role := range roles {
			required = append(required, role.String())
		}
		cfg.Logger.Warn("Role check failed",
			zap.Strings("required_roles", required),
			zap.String("reason", reason),
			zap.String("path", c.Request.URL.Path),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponse(dto.ErrCodeForbidden, "You do not have permission to perform this action"))
}
