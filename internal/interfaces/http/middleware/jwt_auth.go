package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/transgate/internal/application/dto"
	"github.com/turtacn/transgate/internal/domain/models"
	"github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/errors"
	"github.com/turtacn/transgate/pkg/logger"
)

// RequireToken protects routes that need a verified access token.
// On success the Principal is stored on both the gin context and the request
// context; on failure the request is aborted with the validator's status.
// verbose adds internal error detail to the response body.
func RequireToken(validator service.TokenValidator, verbose bool, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		principal, err := validator.Validate(ctx, c.GetHeader(constants.HeaderAuthorization))
		if err != nil {
			appErr := errors.AsAppError(err)
			fields := logger.Fields{
				"code":   string(appErr.Code()),
				"status": appErr.HTTPStatus(),
				"path":   c.Request.URL.Path,
			}
			if appErr.HTTPStatus() >= 500 {
				log.Error(ctx, "Token validation could not complete", err, fields)
			} else {
				log.Warn(ctx, "Request rejected by token validation", fields)
			}
			c.AbortWithStatusJSON(appErr.HTTPStatus(), dto.NewErrorResponse(appErr, verbose))
			return
		}

		c.Set(string(constants.ContextKeyPrincipal), principal)
		c.Request = c.Request.WithContext(context.WithValue(ctx, constants.ContextKeyPrincipal, principal))
		c.Next()
	}
}

// PrincipalFromContext returns the caller attached by RequireToken, if any.
func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(constants.ContextKeyPrincipal).(*models.Principal)
	return p, ok && p != nil
}

//Personal.AI order the ending
