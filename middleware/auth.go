package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"techmate/utils"
)

// Context keys set by the auth middleware.
const (
	SubjectKey      = "subject"
	RoleKey         = "role"
	TechnicianIDKey = "technicianID"
)

// JWTAuthMiddleware accepts a bearer token whose role is one of roles.
func JWTAuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, role, err := utils.ExtractClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Invalid token"})
			return
		}
		if !roleAllowed(role, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Message: "Insufficient permissions"})
			return
		}

		c.Set(SubjectKey, subject)
		c.Set(RoleKey, role)
		if role == utils.RoleTechnician {
			c.Set(TechnicianIDKey, subject)
		}
		c.Next()
	}
}
