package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Payphone-Digital/accounts/internal/dto"
	apperrors "github.com/Payphone-Digital/accounts/internal/errors"
	"github.com/Payphone-Digital/accounts/internal/model"
	"github.com/Payphone-Digital/accounts/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	users   UserStore
	details UserDetailsStore
	tokens  *TokenService
}

func NewUserService(users UserStore, details UserDetailsStore, tokens *TokenService) *UserService {
	return &UserService{
		users:   users,
		details: details,
		tokens:  tokens,
	}
}

// hashPassword hashes password using bcrypt
func (s *UserService) hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// checkPassword verifies password against hash
func (s *UserService) checkPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// validateEmail checks email uniqueness, excluding the user's own row
// on updates. This is a pre-check for a friendly error only: the
// unique constraint on users.email is what actually closes the race,
// and duplicate-key errors from the store are translated the same way.
func (s *UserService) validateEmail(ctx context.Context, email string, excludeID *uint) error {
	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if excludeID != nil && existingUser.ID == *excludeID {
		return nil
	}

	return apperrors.ErrEmailExists
}

// CreateUser creates a new user with a hashed password and, when an
// address was supplied, a linked details row.
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.validateEmail(ctx, email, nil); err != nil {
		logger.GetLogger().Warn("Email validation failed",
			zap.String("email", email),
			zap.Error(err))
		return nil, err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		Password:  hashedPassword,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := userResponse(user)

	if req.Address != nil {
		details, err := s.details.Upsert(ctx, user.ID, *req.Address)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		response.Address = &details.Address
	}

	logger.GetLogger().Info("User created",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.Bool("with_address", req.Address != nil))

	return response, nil
}

// UpdateUser replaces all four core fields of an existing user. The
// password is hashed again even when it did not change. A supplied
// address upserts the details row; an omitted address deletes it.
func (s *UserService) UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validateEmail(ctx, email, &id); err != nil {
		logger.GetLogger().Warn("Email validation failed",
			zap.Uint("user_id", id),
			zap.String("email", email),
			zap.Error(err))
		return nil, err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Email = email
	user.Password = hashedPassword

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailExists
		}
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if req.Address != nil {
		if _, err := s.details.Upsert(ctx, id, *req.Address); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	} else {
		// Clear-by-omission: an update without an address drops any
		// existing details row.
		if err := s.details.DeleteByUserID(ctx, id); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	logger.GetLogger().Info("User updated",
		zap.Uint("user_id", id),
		zap.Bool("with_address", req.Address != nil))

	// The update response carries the core fields only, never the
	// details relation.
	return userResponse(user), nil
}

// DeleteUser hard-deletes a user; details and tokens cascade
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	rows, err := s.users.Delete(ctx, id)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if rows == 0 {
		// The row existed a moment ago but the delete removed nothing;
		// report it as a failed delete, not a missing user.
		return apperrors.ErrDeleteFailed
	}

	logger.GetLogger().Info("User deleted",
		zap.Uint("user_id", id))

	return nil
}

// ListUsers returns every user annotated with its address when a
// details row exists.
func (s *UserService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.ListWithDetails(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		response := userResponse(&users[i])
		if users[i].Details != nil {
			response.Address = &users[i].Details.Address
		}
		responses = append(responses, *response)
	}

	return responses, nil
}

// Authenticate verifies credentials and mints a named bearer token
func (s *UserService) Authenticate(ctx context.Context, req *dto.AuthenticateRequest) (string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.GetLogger().Info("Authentication failed: user not found",
				zap.String("email", email))
			return "", apperrors.ErrUserNotFound
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !s.checkPassword(user.Password, req.Password) {
		logger.GetLogger().Warn("Authentication failed: incorrect password",
			zap.Uint("user_id", user.ID),
			zap.String("email", email))
		return "", apperrors.ErrIncorrectPassword
	}

	token, err := s.tokens.Mint(ctx, user.ID, req.TokenName)
	if err != nil {
		return "", err
	}

	logger.GetLogger().Info("User authenticated",
		zap.Uint("user_id", user.ID),
		zap.String("email", email),
		zap.String("token_name", req.TokenName))

	return token, nil
}

func userResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
