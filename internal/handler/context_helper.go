package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campus360/portal-api/internal/middleware"
	"github.com/campus360/portal-api/internal/models"
	appErrors "github.com/campus360/portal-api/pkg/errors"
	"github.com/campus360/portal-api/pkg/response"
)

// bindJSON decodes the request body into dest. On failure it writes the
// 400 response itself and returns false, so call sites reduce to a
// guard clause.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}

// claimsFromContext pulls the JWT claims stored by the auth middleware.
// Returns nil on unauthenticated routes or when the stored value has an
// unexpected type.
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
