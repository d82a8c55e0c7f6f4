package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Payphone-Digital/accounts/internal/constants"
	"github.com/Payphone-Digital/accounts/internal/dto"
	apperrors "github.com/Payphone-Digital/accounts/internal/errors"
	"github.com/Payphone-Digital/accounts/internal/service"
	"github.com/Payphone-Digital/accounts/pkg/logger"
	"github.com/Payphone-Digital/accounts/pkg/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().Warn("Invalid request body for user creation",
			zap.Error(err))
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(validation.Summary(err)))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.GetLogger().Error("Failed to create user",
			zap.String("email", req.Email),
			zap.Int("http_status", status),
			zap.Error(err))
		c.JSON(status, constants.BuildErrorResponse(apperrors.ClientMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, constants.BuildDataResponse(user))
}

// Update handles PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().Warn("Invalid request body for user update",
			zap.Uint("user_id", id),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(validation.Summary(err)))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.GetLogger().Error("Failed to update user",
			zap.Uint("user_id", id),
			zap.Int("http_status", status),
			zap.Error(err))
		c.JSON(status, constants.BuildErrorResponse(apperrors.ClientMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(user))
}

// Delete handles DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.GetLogger().Error("Failed to delete user",
			zap.Uint("user_id", id),
			zap.Int("http_status", status),
			zap.Error(err))

		switch status {
		case http.StatusNotFound:
			c.JSON(status, constants.BuildErrorResponse(fmt.Sprintf("User with id %d not found", id)))
		case http.StatusBadRequest:
			c.JSON(status, constants.BuildErrorResponse(fmt.Sprintf("Couldn't delete the user with id %d", id)))
		default:
			c.JSON(status, constants.BuildErrorResponse(apperrors.ClientMessage(err)))
		}
		return
	}

	c.JSON(http.StatusOK, constants.BuildMessageResponse(fmt.Sprintf("User with id %d deleted successfully", id)))
}

// List handles GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.GetLogger().Error("Failed to list users",
			zap.Int("http_status", status),
			zap.Error(err))
		c.JSON(status, constants.BuildErrorResponse(apperrors.ClientMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(users))
}

func parseUserID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id64, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		logger.GetLogger().Warn("Invalid user ID format",
			zap.String("raw_id", idStr),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user ID"))
		return 0, false
	}
	return uint(id64), true
}
