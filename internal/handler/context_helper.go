package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mentorlink/course-api/internal/middleware"
	"github.com/mentorlink/course-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// studentIDForRequest resolves which student's data the request targets:
// students always see their own, staff may pass ?studentId= explicitly.
func studentIDForRequest(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil {
		return ""
	}
	if claims.Role == models.RoleStudent {
		return claims.UserID
	}
	if id := c.Query("studentId"); id != "" {
		return id
	}
	return claims.UserID
}
