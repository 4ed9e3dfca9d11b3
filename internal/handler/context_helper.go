package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vaguthu/election-console/internal/middleware"
	"github.com/vaguthu/election-console/internal/models"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
	"github.com/vaguthu/election-console/pkg/response"
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

// requireClaims fetches claims and writes a 401 when they are absent.
func requireClaims(c *gin.Context) (*models.JWTClaims, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}
