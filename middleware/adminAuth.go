package middleware

import (
	"github.com/gin-gonic/gin"

	"techmate/utils"
)

func JWTAuthAdminMiddleware() gin.HandlerFunc {
	return JWTAuthMiddleware(utils.RoleAdmin)
}

// JWTAuthTechnicianMiddleware authenticates the technician acting on their own
// subscription. The technician id is available under TechnicianIDKey.
func JWTAuthTechnicianMiddleware() gin.HandlerFunc {
	return JWTAuthMiddleware(utils.RoleTechnician)
}

// JWTAuthServiceMiddleware authenticates the booking and warranty services
// that push activity changes into the schedule.
func JWTAuthServiceMiddleware() gin.HandlerFunc {
	return JWTAuthMiddleware(utils.RoleService, utils.RoleAdmin)
}
