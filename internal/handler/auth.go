package handler

import (
	"net/http"

	"github.com/Payphone-Digital/accounts/internal/constants"
	"github.com/Payphone-Digital/accounts/internal/dto"
	apperrors "github.com/Payphone-Digital/accounts/internal/errors"
	"github.com/Payphone-Digital/accounts/internal/service"
	"github.com/Payphone-Digital/accounts/pkg/logger"
	"github.com/Payphone-Digital/accounts/pkg/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Authenticate handles POST /api/users/auth. On success the data
// payload is the plaintext bearer token, returned exactly once.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req dto.AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().Warn("Invalid request body for authentication",
			zap.Error(err))
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(validation.Summary(err)))
		return
	}

	token, err := h.userService.Authenticate(c.Request.Context(), &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.GetLogger().Warn("Authentication failed",
			zap.String("email", req.Email),
			zap.Int("http_status", status),
			zap.Error(err))
		c.JSON(status, constants.BuildErrorResponse(apperrors.ClientMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(token))
}
