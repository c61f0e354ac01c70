package middlewares

import (
	"net/http"
	"strconv"
	"strings"

	"wellness/models"
	"wellness/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

var roleRank = map[string]int{
	models.RoleGuest:    0,
	models.RoleStandard: 1,
	models.RolePremium:  2,
	models.RoleAdmin:    3,
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			return
		}

		claims, err := utils.ParseJWT(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireOwnership rejects requests whose :param user id is not the
// authenticated user.
func RequireOwnership(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid " + param})
			return
		}
		if uint(id) != c.GetUint(ContextUserID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}

// CheckRole lets through users whose role ranks at least min, in the order
// guest < standard < premium < admin.
func CheckRole(min string) gin.HandlerFunc {
	return func(c *gin.Context) {
		have, ok := roleRank[c.GetString(ContextRole)]
		if !ok || have < roleRank[min] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}
