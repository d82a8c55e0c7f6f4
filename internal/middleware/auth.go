package middleware

import (
	"net/http"
	"strings"

	"github.com/Payphone-Digital/accounts/internal/constants"
	"github.com/Payphone-Digital/accounts/internal/service"
	"github.com/Payphone-Digital/accounts/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	tokenService *service.TokenService
}

func NewAuthMiddleware(tokenService *service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// RequireAuth validates the bearer token and sets the owning user in
// the request context. Any issued token grants access; there is no
// permission model beyond "a valid token exists".
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.AuthorizationHeader)
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized"))
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != constants.BearerScheme {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized"))
			c.Abort()
			return
		}

		token, err := m.tokenService.Verify(c.Request.Context(), tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Invalid bearer token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized"))
			c.Abort()
			return
		}

		c.Set(constants.ContextUserIDKey, token.UserID)
		c.Set(constants.ContextTokenIDKey, token.ID)

		logger.GetLogger().Debug("Request authenticated",
			zap.Uint("user_id", token.UserID),
			zap.String("token_name", token.Name),
			zap.String("path", c.Request.URL.Path))

		c.Next()
	}
}
